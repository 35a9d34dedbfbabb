// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// maxHTMLSize bounds landing and reader pages.
const maxHTMLSize = 5 << 20

var (
	// readerURLPattern finds Semantic Reader links embedded in page scripts.
	readerURLPattern = regexp.MustCompile(`https?://(?:www\.)?semanticscholar\.org/reader/[0-9a-fA-F]+`)

	// pdfURLToken finds the PDF location in the reader's bootstrap JSON.
	pdfURLToken = regexp.MustCompile(`"pdfUrl"\s*:\s*("(?:[^"\\]|\\.)*")`)
)

// ReaderStrategy scrapes the Semantic Scholar landing page for a link to
// the Semantic Reader, reads the PDF location from the reader page and
// downloads it with the direct-URL rules. It only adds coverage for papers
// the other strategies missed.
type ReaderStrategy struct {
	Client *http.Client
	Direct *DirectURLStrategy
	Log    log.FieldLogger
}

// Method implements Strategy.
func (s *ReaderStrategy) Method() types.Method { return types.MethodReader }

// Attempt implements Strategy.
func (s *ReaderStrategy) Attempt(ctx context.Context, p *types.Paper, base string) (string, bool, error) {
	l := paperLog(s.Log, p, s.Method())
	landing := strings.TrimSpace(p.URL)
	if landing == "" {
		return "", false, nil
	}

	doc, err := s.page(ctx, landing)
	if err != nil {
		l.WithError(err).WithField("url", landing).Warn("could not load landing page")
		return "", false, nil
	}
	readerURL := findReaderLink(doc, landing)
	if readerURL == "" {
		l.WithField("url", landing).Info("no Semantic Reader link on landing page")
		return "", false, nil
	}

	readerDoc, err := s.page(ctx, readerURL)
	if err != nil {
		l.WithError(err).WithField("url", readerURL).Warn("could not load reader page")
		return "", false, nil
	}
	pdfURL := findPDFURL(readerDoc, readerURL)
	if pdfURL == "" {
		l.WithField("url", readerURL).Info("no PDF URL on reader page")
		return "", false, nil
	}

	l.WithField("url", pdfURL).Info("attempting download from reader PDF URL")
	return s.Direct.download(ctx, l, pdfURL, base)
}

// page GETs an HTML page and parses it.
func (s *ReaderStrategy) page(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := fetch(ctx, s.Client, pageURL, httputil.BrowserUserAgent)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d (%s)", resp.Status, httputil.StatusCause(resp.Status))
	}
	body := resp.Body
	if len(body) > maxHTMLSize {
		body = body[:maxHTMLSize]
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// findReaderLink looks for an anchor whose text mentions the Semantic
// Reader, then for a reader URL inside inline scripts.
func findReaderLink(doc *goquery.Document, pageURL string) string {
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(a.Text()), "semantic reader") {
			href, _ := a.Attr("href")
			if href = strings.TrimSpace(href); href != "" {
				link = resolveURL(pageURL, href)
			}
		}
		return link == ""
	})
	if link != "" {
		return link
	}

	doc.Find("script").EachWithBreak(func(_ int, sc *goquery.Selection) bool {
		link = readerURLPattern.FindString(sc.Text())
		return link == ""
	})
	return link
}

// findPDFURL reads the citation_pdf_url meta tag, falling back to a pdfUrl
// token in inline scripts.
func findPDFURL(doc *goquery.Document, pageURL string) string {
	if content, ok := doc.Find(`meta[name="citation_pdf_url"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		return resolveURL(pageURL, strings.TrimSpace(content))
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, sc *goquery.Selection) bool {
		m := pdfURLToken.FindStringSubmatch(sc.Text())
		if m == nil {
			return true
		}
		var v string
		if err := json.Unmarshal([]byte(m[1]), &v); err == nil && v != "" {
			found = resolveURL(pageURL, v)
		}
		return found == ""
	})
	return found
}

// resolveURL resolves href against base; unparsable input is returned as-is.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
