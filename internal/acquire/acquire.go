// Package acquire downloads the PDF of each paper found by a search session.
// A Downloader tries an ordered list of strategies (arXiv, open-access
// link, landing-page URL, optionally the reader scrape), keeps per-method
// statistics, and hands every outcome to a Recorder exactly once.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

// ErrOutputDirMissing means Acquire was called before the session
// directory was created. It is a caller bug and aborts the batch.
var ErrOutputDirMissing = errors.New("output directory does not exist")

// Recorder persists the outcome of one paper attempt.
type Recorder interface {
	RecordPaper(ctx context.Context, searchID int64, p *types.Paper, o types.Outcome) error
}

// Stats counts attempts by outcome. After every completed Acquire call,
// Total equals the sum of the per-method successes plus Failed.
type Stats struct {
	Total      int `json:"total" yaml:"total"`
	Archive    int `json:"archive_success" yaml:"archive_success"`
	OpenAccess int `json:"open_access_success" yaml:"open_access_success"`
	DirectURL  int `json:"direct_url_success" yaml:"direct_url_success"`
	Reader     int `json:"reader_success" yaml:"reader_success"`
	Failed     int `json:"failed" yaml:"failed"`
}

// Succeeded returns the number of papers with a PDF.
func (s Stats) Succeeded() int {
	return s.Archive + s.OpenAccess + s.DirectURL + s.Reader
}

// SuccessRate returns the share of successful attempts in percent.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded()) / float64(s.Total) * 100
}

func (s *Stats) add(o types.Outcome) {
	s.Total++
	if !o.Success() {
		s.Failed++
		return
	}
	switch o.Method {
	case types.MethodArchive:
		s.Archive++
	case types.MethodOpenAccess:
		s.OpenAccess++
	case types.MethodDirectURL:
		s.DirectURL++
	case types.MethodReader:
		s.Reader++
	default:
		s.Failed++
	}
}

func knownMethod(m types.Method) bool {
	switch m {
	case types.MethodArchive, types.MethodOpenAccess, types.MethodDirectURL, types.MethodReader:
		return true
	}
	return false
}

// Downloader runs the acquisition strategies for one session directory.
// Acquire is meant to be called sequentially; Stats may be read at any time.
type Downloader struct {
	dir        string
	strategies []Strategy
	recorder   Recorder
	log        *log.Entry

	mu    sync.Mutex
	stats Stats
}

// NewDownloader returns a Downloader writing into dir. The logger should
// carry the session ID; a nil logger uses the standard logrus logger.
func NewDownloader(dir string, strategies []Strategy, rec Recorder, logger *log.Entry) *Downloader {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Downloader{dir: dir, strategies: strategies, recorder: rec, log: logger}
}

// Dir returns the session directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// Acquire tries each strategy in order until one produces a PDF, updates
// the statistics and records the outcome. Strategy failures never surface
// as errors. The returned error is one of: a nil paper, ErrOutputDirMissing
// (in both cases nothing was attempted or recorded), or a failure to record
// the outcome.
func (d *Downloader) Acquire(ctx context.Context, p *types.Paper, searchID int64) (types.Outcome, error) {
	if p == nil {
		return types.Outcome{}, errors.New("acquire: nil paper")
	}
	if info, err := os.Stat(d.dir); err != nil || !info.IsDir() {
		return types.Outcome{}, fmt.Errorf("%w: %s", ErrOutputDirMissing, d.dir)
	}

	l := d.log.WithFields(log.Fields{"paper_id": p.PaperID, "title": p.Title})
	base := filepath.Join(d.dir, baseFilename(p))
	outcome := d.run(ctx, l, p, base)

	d.mu.Lock()
	d.stats.add(outcome)
	d.mu.Unlock()

	if outcome.Success() {
		l.WithFields(log.Fields{"method": string(outcome.Method), "path": outcome.Path}).Info("paper downloaded")
	} else {
		l.Info("no download source succeeded")
	}

	if d.recorder != nil {
		// The outcome is recorded even when ctx was canceled mid-attempt.
		if err := d.recorder.RecordPaper(context.WithoutCancel(ctx), searchID, p, outcome); err != nil {
			return outcome, fmt.Errorf("recording outcome for %q: %w", p.Title, err)
		}
	}
	return outcome, nil
}

// run is the per-paper failure boundary: a strategy error or panic ends the
// attempt as a failure without affecting the rest of the batch.
func (d *Downloader) run(ctx context.Context, l *log.Entry, p *types.Paper, base string) (out types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			l.WithField("panic", r).Error("error processing paper")
			out = types.Outcome{}
		}
	}()

	for _, s := range d.strategies {
		path, ok, err := s.Attempt(ctx, p, base)
		if err != nil {
			l.WithError(err).WithField("method", string(s.Method())).Error("error processing paper")
			return types.Outcome{}
		}
		if ok {
			if !knownMethod(s.Method()) {
				l.WithFields(log.Fields{"method": string(s.Method()), "path": path}).Warn("strategy reported an unknown method")
				return types.Outcome{}
			}
			return types.Outcome{Path: path, Method: s.Method()}
		}
	}
	return types.Outcome{}
}

// Stats returns a snapshot of the counters.
func (d *Downloader) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// LogSummary logs the batch totals.
func (d *Downloader) LogSummary() {
	s := d.Stats()
	d.log.WithFields(log.Fields{
		"total":               s.Total,
		"archive_success":     s.Archive,
		"open_access_success": s.OpenAccess,
		"direct_url_success":  s.DirectURL,
		"reader_success":      s.Reader,
		"failed":              s.Failed,
		"success_rate":        fmt.Sprintf("%.1f%%", s.SuccessRate()),
	}).Info("download summary")
}

// maxStemBytes keeps "<stem>.pdf" and the temp file names well under
// NAME_MAX (255 bytes on common filesystems).
const maxStemBytes = 200

// baseFilename derives the filename stem from the title, falling back to
// the paper ID for titles with no usable characters.
func baseFilename(p *types.Paper) string {
	if name := clipStem(types.SafeFilename(p.Title)); name != "" {
		return name
	}
	if name := clipStem(types.SafeFilename(p.PaperID)); name != "" {
		return name
	}
	return "untitled"
}

// clipStem cuts name to at most maxStemBytes without splitting a rune.
func clipStem(name string) string {
	if len(name) <= maxStemBytes {
		return name
	}
	cut := maxStemBytes
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return strings.TrimSpace(name[:cut])
}
