// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-fetch CLI. It searches
// Semantic Scholar, downloads a PDF for every paper found and keeps a
// SQLite history of each session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-fetch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the scholar-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-fetch",
	Short: "Search Semantic Scholar and download the papers found",
	Long: `scholar-fetch runs a Semantic Scholar search and downloads a PDF for each
result, trying arXiv, the open-access link and the paper's landing page in
that order. Every session gets its own output directory and log file, and
each paper's outcome is recorded in a local SQLite history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-fetch.yaml or ~/.config/scholar-fetch/scholar-fetch.yaml)")
	rootCmd.PersistentFlags().String("db-path", "search_history.db", "SQLite history database")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	bindFlag(rootCmd.PersistentFlags().Lookup("db-path"), "db_path")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "log_level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-fetch"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_FETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
