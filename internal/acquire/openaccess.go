// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// OpenAccessStrategy downloads the paper's open-access PDF link. Publisher
// hosts often reject non-browser clients, so requests carry a browser
// User-Agent. The response is trusted on its declared content type.
type OpenAccessStrategy struct {
	Client *http.Client
	Log    log.FieldLogger
}

// Method implements Strategy.
func (s *OpenAccessStrategy) Method() types.Method { return types.MethodOpenAccess }

// Attempt implements Strategy.
func (s *OpenAccessStrategy) Attempt(ctx context.Context, p *types.Paper, base string) (string, bool, error) {
	l := paperLog(s.Log, p, s.Method())
	if !p.IsOpenAccess || p.OpenAccessPDF == nil {
		l.Debug("no open-access PDF reference")
		return "", false, nil
	}
	url := p.OpenAccessURL()
	if url == "" {
		l.Warn("open-access paper has no PDF URL")
		return "", false, nil
	}

	l.WithField("url", url).Info("attempting open-access download")
	resp, err := fetch(ctx, s.Client, url, httputil.BrowserUserAgent)
	if err != nil {
		logFetchError(l, url, err)
		return "", false, nil
	}
	if resp.Status != http.StatusOK {
		logStatus(l, url, resp.Status)
		return "", false, nil
	}
	if !httputil.IsPDFContentType(resp.ContentType) {
		l.WithFields(log.Fields{"url": url, "content_type": resp.ContentType}).Warn("open-access link did not return a PDF")
		return "", false, nil
	}

	path := base + ".pdf"
	if err := writePDF(path, resp.Body); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	l.WithField("path", path).Info("downloaded open-access PDF")
	return path, true, nil
}
