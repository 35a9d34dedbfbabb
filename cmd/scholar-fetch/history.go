// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-fetch/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [search-id]",
	Short: "List past search sessions or the papers of one session",
	Long: `History reads the SQLite history database. Without arguments it lists
recent search sessions with their download counts. Given a search ID it
lists every paper attempted in that session with the method that succeeded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum sessions to list (0 = all)")
	historyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(historyConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		searchID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid search ID %q", args[0])
		}
		papers, err := store.Papers(cmd.Context(), searchID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(w, papers)
		}
		return formatPapers(w, papers)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	searches, err := store.Searches(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, searches)
	}
	return formatSearches(w, searches)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSearches(w io.Writer, searches []history.SearchRecord) error {
	if len(searches) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-15s  %-40s  %-5s  %s\n", "ID", "Session", "Query", "Bulk", "Downloaded")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, s := range searches {
		fmt.Fprintf(w, "%-4d  %-15s  %-40s  %-5t  %d/%d\n",
			s.ID, s.Session.ID, truncate(s.Session.Params.Query, 40), s.Session.Params.Bulk, s.Succeeded, s.Attempted)
	}
	return nil
}

func formatPapers(w io.Writer, papers []history.PaperRecord) error {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers recorded for this search.")
		return nil
	}

	fmt.Fprintf(w, "%-50s  %-4s  %-11s  %s\n", "Title", "Year", "Method", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	succeeded := 0
	for _, p := range papers {
		method := string(p.Method)
		if !p.Success {
			method = "failed"
		} else {
			succeeded++
		}
		fmt.Fprintf(w, "%-50s  %-4d  %-11s  %s\n", truncate(p.Title, 50), p.Year, method, p.Path)
	}
	fmt.Fprintf(w, "\n%d of %d papers downloaded\n", succeeded, len(papers))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
