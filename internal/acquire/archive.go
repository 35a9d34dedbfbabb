// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// ArchiveStrategy downloads the PDF straight from arXiv when an arXiv
// identifier can be derived from the paper's metadata. Every request goes
// through Limiter.
type ArchiveStrategy struct {
	Client    *http.Client
	Limiter   *RateLimiter
	UserAgent string
	Log       log.FieldLogger
}

// Method implements Strategy.
func (s *ArchiveStrategy) Method() types.Method { return types.MethodArchive }

// Attempt implements Strategy. The body must carry the PDF signature;
// arXiv answers with an HTML page for withdrawn or unknown IDs.
func (s *ArchiveStrategy) Attempt(ctx context.Context, p *types.Paper, base string) (string, bool, error) {
	l := paperLog(s.Log, p, s.Method())
	id := ExtractArxivID(p)
	if id == "" {
		l.Debug("no arXiv identifier")
		return "", false, nil
	}
	l = l.WithField("arxiv_id", id)

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			l.WithError(err).Warn("gave up waiting for arXiv rate limit")
			return "", false, nil
		}
	}

	url := arxivPDFBase + id
	start := time.Now()
	resp, err := fetch(ctx, s.Client, url, s.UserAgent)
	if err != nil {
		logFetchError(l, url, err)
		return "", false, nil
	}
	if resp.Status != http.StatusOK {
		logStatus(l, url, resp.Status)
		return "", false, nil
	}
	if !httputil.HasPDFSignature(resp.Body) {
		l.WithFields(log.Fields{"url": url, "content_type": resp.ContentType}).Warn("arXiv response is not a PDF")
		return "", false, nil
	}

	path := base + ".pdf"
	if err := writePDF(path, resp.Body); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	l.WithFields(elapsed(start)).WithField("path", path).Info("downloaded arXiv PDF")
	return path, true, nil
}
