// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/internal/httputil"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// maxPDFSize bounds how much of a response body is buffered. Larger
// bodies are rejected rather than truncated.
var maxPDFSize int64 = 256 << 20

var errBodyTooLarge = errors.New("response body too large")

// Strategy is one way of obtaining a paper's PDF.
//
// Attempt writes the PDF to base+".pdf" and returns its path with ok set.
// A strategy whose preconditions are not met, or whose download is
// rejected, returns ok=false and a nil error after logging why. A non-nil
// error is reserved for failures outside the download itself, such as
// being unable to write into the output directory.
type Strategy interface {
	Method() types.Method
	Attempt(ctx context.Context, p *types.Paper, base string) (path string, ok bool, err error)
}

// DefaultStrategies returns the strategies in priority order: arXiv,
// open-access link, landing-page URL, and the reader scrape when enabled.
func DefaultStrategies(cfg types.AcquisitionConfig, client *http.Client, logger log.FieldLogger) []Strategy {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	direct := &DirectURLStrategy{Client: client, Log: logger}
	strategies := []Strategy{
		&ArchiveStrategy{
			Client:    client,
			Limiter:   NewRateLimiter(cfg.ArchiveInterval, logger),
			UserAgent: cfg.UserAgent,
			Log:       logger,
		},
		&OpenAccessStrategy{Client: client, Log: logger},
		direct,
	}
	if cfg.ReaderScrape {
		strategies = append(strategies, &ReaderStrategy{Client: client, Direct: direct, Log: logger})
	}
	return strategies
}

// fetched is a fully buffered HTTP response.
type fetched struct {
	Status      int
	ContentType string
	Body        []byte
}

// fetch GETs url and buffers the body of 200 responses.
func fetch(ctx context.Context, client *http.Client, url, userAgent string) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetched{}, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fetched{}, err
	}
	defer resp.Body.Close()

	f := fetched{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return f, nil
	}
	f.Body, err = io.ReadAll(io.LimitReader(resp.Body, maxPDFSize+1))
	if err != nil {
		return f, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(f.Body)) > maxPDFSize {
		return fetched{Status: f.Status, ContentType: f.ContentType}, fmt.Errorf("%w: over %d bytes", errBodyTooLarge, maxPDFSize)
	}
	return f, nil
}

// logFetchError logs a transport failure, calling out timeouts.
func logFetchError(l log.FieldLogger, url string, err error) {
	entry := l.WithField("url", url).WithError(err)
	if errors.Is(err, errBodyTooLarge) {
		entry.Warn("download failed: response too large")
		return
	}
	if httputil.IsTimeout(err) {
		entry.Warn("download failed: timeout")
		return
	}
	entry.Warn("download failed: request error")
}

// logStatus logs a non-200 response with its failure class.
func logStatus(l log.FieldLogger, url string, status int) {
	l.WithFields(log.Fields{"url": url, "status": status}).
		Warnf("download failed: %s", httputil.StatusCause(status))
}

// writePDF writes data to path through a temporary file in the same
// directory, so a failed write never leaves a partial PDF behind.
func writePDF(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// paperLog scopes a logger to one paper and strategy.
func paperLog(l log.FieldLogger, p *types.Paper, m types.Method) log.FieldLogger {
	if l == nil {
		l = log.StandardLogger()
	}
	return l.WithFields(log.Fields{"title": p.Title, "method": string(m)})
}

// elapsed is a log field helper.
func elapsed(start time.Time) log.Fields {
	return log.Fields{"elapsed": time.Since(start).Round(time.Millisecond)}
}
