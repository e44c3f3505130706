package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/usecase"
)

const displayLayout = "2006-01-02 15:04"

func printSummary(w io.Writer, summary usecase.HistorySummary) {
	if !summary.Loaded {
		fmt.Fprintln(w, "history: no dataset stored yet")
		return
	}
	if summary.Rows == 0 {
		fmt.Fprintln(w, "history: 0 rows")
		return
	}
	fmt.Fprintf(w, "history: %d rows, %s .. %s\n",
		summary.Rows,
		summary.First.Format(displayLayout),
		summary.Last.Format(displayLayout),
	)
}

func printRecords(w io.Writer, records match.Dataset) {
	if len(records) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCOMP\tSEASON\tHOME\tSCORE\tAWAY")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d-%d\t%s\n",
			r.Date.Format(displayLayout),
			r.CompetitionCode,
			seasonLabel(r.Season),
			r.HomeTeam,
			r.HomeGoals, r.AwayGoals,
			r.AwayTeam,
		)
	}
	_ = tw.Flush()
}

func printIngestReport(w io.Writer, report usecase.IngestReport) {
	fmt.Fprintf(w, "ingest %s: requested %d, fetched %d, skipped %d, %d new records\n",
		report.RunID,
		len(report.Requested),
		len(report.Fetched),
		len(report.Skipped),
		report.RecordsFetched,
	)
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "already stored: %s\n", joinPairs(report.Skipped))
	}
}

func printRefreshReport(w io.Writer, report usecase.RefreshReport) {
	codes := "all competitions"
	if len(report.Codes) > 0 {
		codes = strings.Join(report.Codes, ",")
	}
	fmt.Fprintf(w, "refresh %s: %s .. %s (%s), %d records fetched\n",
		report.RunID,
		report.From.Format("2006-01-02"),
		report.To.Format("2006-01-02"),
		codes,
		report.RecordsFetched,
	)
}

func joinPairs(pairs []match.CompSeason) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s/%s", p.Code, seasonLabel(p.Season)))
	}
	return strings.Join(parts, " ")
}

func seasonLabel(season int) string {
	if season == match.UnknownSeason {
		return "-"
	}
	return fmt.Sprintf("%d", season)
}
