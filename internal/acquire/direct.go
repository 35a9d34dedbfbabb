// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// DirectURLStrategy downloads from the paper's landing-page URL. Third-party
// sites mislabel content types, so only the PDF signature of the body
// decides acceptance.
type DirectURLStrategy struct {
	Client *http.Client
	Log    log.FieldLogger
}

// Method implements Strategy.
func (s *DirectURLStrategy) Method() types.Method { return types.MethodDirectURL }

// Attempt implements Strategy.
func (s *DirectURLStrategy) Attempt(ctx context.Context, p *types.Paper, base string) (string, bool, error) {
	l := paperLog(s.Log, p, s.Method())
	if strings.TrimSpace(p.URL) == "" {
		l.Debug("no landing-page URL")
		return "", false, nil
	}
	l.WithField("url", p.URL).Info("attempting direct download")
	return s.download(ctx, l, strings.TrimSpace(p.URL), base)
}

// download fetches url and writes it to base+".pdf" when the body is a PDF.
// If the first response is neither declared nor signed as a PDF and url has
// no .pdf suffix, url+".pdf" is tried once. HTTP errors and timeouts are
// logged by cause and not retried.
func (s *DirectURLStrategy) download(ctx context.Context, l log.FieldLogger, url, base string) (string, bool, error) {
	resp, ok := s.get(ctx, l, url)
	if !ok {
		return "", false, nil
	}

	if !httputil.HasPDFSignature(resp.Body) && !httputil.IsPDFContentType(resp.ContentType) &&
		!strings.HasSuffix(strings.ToLower(url), ".pdf") {
		url += ".pdf"
		l.WithField("url", url).Debug("retrying with .pdf suffix")
		if resp, ok = s.get(ctx, l, url); !ok {
			return "", false, nil
		}
	}

	if !httputil.HasPDFSignature(resp.Body) {
		l.WithFields(log.Fields{"url": url, "content_type": resp.ContentType}).Warn("download failed: content is not a PDF")
		return "", false, nil
	}

	path := base + ".pdf"
	if err := writePDF(path, resp.Body); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	l.WithField("path", path).Info("downloaded PDF from direct URL")
	return path, true, nil
}

// get performs one GET and reports whether a 200 response arrived.
func (s *DirectURLStrategy) get(ctx context.Context, l log.FieldLogger, url string) (fetched, bool) {
	resp, err := fetch(ctx, s.Client, url, httputil.BrowserUserAgent)
	if err != nil {
		logFetchError(l, url, err)
		return fetched{}, false
	}
	if resp.Status != http.StatusOK {
		logStatus(l, url, resp.Status)
		return fetched{}, false
	}
	return resp, true
}
