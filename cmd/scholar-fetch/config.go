package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-fetch/internal/secrets"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "scholar-fetch/0.1"
)

// bindFlag makes a flag settable from the config file and from
// SCHOLAR_FETCH_<KEY> environment variables.
func bindFlag(f *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := viper.GetString("user_agent")
	if ua == "" {
		ua = defaultUserAgent
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: ua}
}

func searchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: httpConfig(),
		APIKey:     loadedSecrets.Get(secrets.SemanticScholarAPIKey, viper.GetString("semantic_scholar_api_key")),
	}
}

func acquisitionConfig() types.AcquisitionConfig {
	return types.AcquisitionConfig{
		HTTPConfig:      httpConfig(),
		OutputDir:       viper.GetString("output_dir"),
		ArchiveInterval: viper.GetDuration("archive_interval"),
		ReaderScrape:    viper.GetBool("reader_scrape"),
	}
}

func historyConfig() types.HistoryConfig {
	return types.HistoryConfig{DBPath: viper.GetString("db_path")}
}

func loggingConfig() types.LoggingConfig {
	return types.LoggingConfig{
		Dir:   viper.GetString("log_dir"),
		Level: viper.GetString("log_level"),
	}
}
