package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent to the Semantic Scholar and
	// arXiv APIs (e.g. "scholar-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the Semantic Scholar client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// AcquisitionConfig holds settings for the PDF acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the root under which session directories are created.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ArchiveInterval is the minimum spacing between arXiv requests (default 3s).
	ArchiveInterval time.Duration `json:"archive_interval" yaml:"archive_interval"`

	// ReaderScrape enables the landing-page scraping strategy.
	ReaderScrape bool `json:"reader_scrape" yaml:"reader_scrape"`
}

// HistoryConfig holds settings for the search history database.
type HistoryConfig struct {
	// DBPath is the SQLite file that stores searches and paper outcomes.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LoggingConfig holds settings for the session logger.
type LoggingConfig struct {
	// Dir receives one log file per session (search_<session>.log).
	Dir string `json:"dir" yaml:"dir"`

	// Level is a logrus level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level"`
}
