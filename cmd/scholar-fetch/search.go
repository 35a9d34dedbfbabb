package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-fetch/internal/acquire"
	"github.com/pdiddy/scholar-fetch/internal/history"
	"github.com/pdiddy/scholar-fetch/internal/logging"
	"github.com/pdiddy/scholar-fetch/internal/search"
	"github.com/pdiddy/scholar-fetch/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Semantic Scholar and download every paper found",
	Long: `Search runs one session: it queries Semantic Scholar, creates a session
directory under the output directory, and tries to download a PDF for each
result. Downloads try arXiv first (rate limited), then the open-access link,
then the paper's landing page. Outcomes are recorded in the history database
and summarized in summary.yaml inside the session directory.

--save-results writes the search results to a YAML file; --from-results
starts a new download session from such a file without querying the API.

Without --bulk, relevance search is used and --sort is ignored. With --bulk,
the bulk endpoint returns 1000 results per page and honors --sort.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if from, _ := cmd.Flags().GetString("from-results"); from != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.Bool("bulk", false, "use the bulk search endpoint (1000 results per page, sortable)")
	f.Int("max-pages", 1, "maximum number of result pages")
	f.Int("max-results-per-page", 10, "results per page, at most 1000 (ignored with --bulk)")
	f.String("sort", types.SortCitationCountDesc, "sort order with --bulk: "+strings.Join(types.ValidSorts, ", "))
	f.Int("min-citation-count", 0, "minimum citation count")
	f.StringSlice("fields-of-study", nil, "restrict to fields of study (comma-separated)")
	f.String("publication-date-or-year", "", "publication range, e.g. 2019:2023 or 2020-01-01:2020-12-31")

	f.String("output-dir", "papers", "root directory for session output")
	f.String("log-dir", "logs", "directory for per-session log files")
	f.Duration("timeout", defaultTimeout, "HTTP request timeout")
	f.String("user-agent", defaultUserAgent, "User-Agent for API and arXiv requests")
	f.Duration("archive-interval", acquire.DefaultArchiveInterval, "minimum spacing between arXiv requests")
	f.Bool("reader-scrape", false, "fall back to the Semantic Reader page when other sources fail")
	f.String("api-key", "", "Semantic Scholar API key (default: .secrets/semantic-scholar-api-key)")
	f.String("save-results", "", "write the search results to this YAML file")
	f.String("from-results", "", "download the papers saved in this YAML file instead of searching")

	bindFlag(f.Lookup("output-dir"), "output_dir")
	bindFlag(f.Lookup("log-dir"), "log_dir")
	bindFlag(f.Lookup("timeout"), "timeout")
	bindFlag(f.Lookup("user-agent"), "user_agent")
	bindFlag(f.Lookup("archive-interval"), "archive_interval")
	bindFlag(f.Lookup("reader-scrape"), "reader_scrape")
	bindFlag(f.Lookup("api-key"), "semantic_scholar_api_key")

	rootCmd.AddCommand(searchCmd)
}

func searchParamsFromFlags(cmd *cobra.Command, args []string) types.SearchParams {
	bulk, _ := cmd.Flags().GetBool("bulk")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	perPage, _ := cmd.Flags().GetInt("max-results-per-page")
	sortBy, _ := cmd.Flags().GetString("sort")
	minCitations, _ := cmd.Flags().GetInt("min-citation-count")
	fields, _ := cmd.Flags().GetStringSlice("fields-of-study")
	dateRange, _ := cmd.Flags().GetString("publication-date-or-year")

	return types.SearchParams{
		Query:                 strings.Join(args, " "),
		Bulk:                  bulk,
		MaxPages:              maxPages,
		MaxResultsPerPage:     perPage,
		Sort:                  sortBy,
		MinCitationCount:      minCitations,
		FieldsOfStudy:         fields,
		PublicationDateOrYear: dateRange,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fromFile, _ := cmd.Flags().GetString("from-results")

	var (
		params types.SearchParams
		saved  *search.ResultsFile
	)
	if fromFile != "" {
		rf, err := search.ReadResultsFile(fromFile)
		if err != nil {
			return err
		}
		saved, params = rf, rf.Session.Params
	} else {
		params = searchParamsFromFlags(cmd, args)
		// Validate what the user asked for before normalization rewrites it.
		if err := params.Validate(); err != nil {
			return err
		}
	}

	sess := types.Session{ID: types.NewSessionID(time.Now())}
	logger, closer, err := logging.New(sess.ID, loggingConfig(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.WithField("query", params.Query).Info("search session started")
	logParams(logger, params)
	sess.Params = params.Normalize()

	store, err := history.Open(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	searchID, err := store.RecordSearch(ctx, sess)
	if err != nil {
		return err
	}

	var papers []types.Paper
	if saved != nil {
		papers = saved.Papers
		logger.WithFields(log.Fields{"file": fromFile, "count": len(papers)}).Info("loaded saved results")
	} else {
		papers, err = search.NewClient(searchConfig(), logger).Search(ctx, sess.Params)
		if err != nil {
			return err
		}
	}
	if len(papers) == 0 {
		logger.Info("no results found")
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return nil
	}
	logger.WithField("count", len(papers)).Info("search finished")

	if out, _ := cmd.Flags().GetString("save-results"); out != "" {
		if err := search.WriteResultsFile(out, sess, papers, time.Now()); err != nil {
			return err
		}
		logger.WithField("file", out).Info("saved search results")
	}

	cfg := acquisitionConfig()
	dir := sess.OutputDir(cfg.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	d := acquire.NewDownloader(dir, acquire.DefaultStrategies(cfg, client, logger), store, logger)
	if err := downloadAll(cmd, d, papers, searchID, logger); err != nil {
		return err
	}

	d.LogSummary()
	if err := acquire.WriteSummary(dir, acquire.NewSummary(sess, len(papers), d, time.Now())); err != nil {
		return err
	}
	logger.Info("search session completed")

	printResult(cmd.OutOrStdout(), d.Stats(), dir)
	return nil
}

// logParams logs the requested parameters and the overrides Normalize
// will apply to them.
func logParams(logger *log.Entry, params types.SearchParams) {
	logger.WithFields(log.Fields{
		"bulk":                     params.Bulk,
		"max_pages":                params.MaxPages,
		"max_results_per_page":     params.MaxResultsPerPage,
		"sort":                     params.Sort,
		"min_citation_count":       params.MinCitationCount,
		"fields_of_study":          params.FieldsOfStudy,
		"publication_date_or_year": params.PublicationDateOrYear,
	}).Info("search parameters")
	if params.Bulk {
		logger.Warnf("bulk mode enabled: results per page will be overridden to %d", types.BulkResultsPerPage)
	} else if params.Sort != types.SortRelevanceDesc {
		logger.Warnf("non-bulk mode: sort will be overridden to %s", types.SortRelevanceDesc)
	}
}

// downloadAll runs the Downloader over papers in order. It stops early when
// the command's context is canceled.
func downloadAll(cmd *cobra.Command, d *acquire.Downloader, papers []types.Paper, searchID int64, logger *log.Entry) error {
	ctx := cmd.Context()
	for i := range papers {
		if err := ctx.Err(); err != nil {
			logger.WithField("remaining", len(papers)-i).Warn("interrupted, skipping remaining papers")
			return nil
		}
		p := &papers[i]
		logger.WithFields(log.Fields{
			"n":       fmt.Sprintf("%d/%d", i+1, len(papers)),
			"title":   p.Title,
			"authors": p.AuthorNames(),
			"year":    p.Year,
			"url":     p.URL,
		}).Info("downloading paper")

		if _, err := d.Acquire(ctx, p, searchID); err != nil {
			return err
		}
	}
	return nil
}

func printResult(w io.Writer, s acquire.Stats, dir string) {
	fmt.Fprintf(w, "Downloaded %d of %d papers (%.1f%%) into %s\n", s.Succeeded(), s.Total, s.SuccessRate(), dir)
	fmt.Fprintf(w, "  archive: %d  open-access: %d  direct-url: %d  reader: %d  failed: %d\n",
		s.Archive, s.OpenAccess, s.DirectURL, s.Reader, s.Failed)
}
