package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-history/internal/domain/match"
	idgen "github.com/riskibarqy/football-history/internal/platform/id"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

const (
	// RefreshWindowDays is the trailing window re-fetched by RefreshRecent.
	RefreshWindowDays = 7

	// DefaultSeasonCount is how many completed season start-years are selected
	// when a caller names none.
	DefaultSeasonCount = 3
	SeasonLookback     = 10
)

// MatchSource fetches raw match documents from the remote provider.
type MatchSource interface {
	FetchCompetitionMatches(ctx context.Context, code string, season int) (match.Payload, error)
	FetchMatchesByDate(ctx context.Context, from, to time.Time, codes []string) (match.Payload, error)
}

type IngestInput struct {
	Codes   []string
	Seasons []int
	Delay   time.Duration
}

type IngestReport struct {
	RunID          string
	Requested      []match.CompSeason
	Fetched        []match.CompSeason
	Skipped        []match.CompSeason
	RecordsFetched int
	DatasetSize    int
}

type RefreshInput struct {
	Codes []string
}

type RefreshReport struct {
	RunID          string
	From           time.Time
	To             time.Time
	Codes          []string
	RecordsFetched int
	DatasetSize    int
}

// HistoryService grows a match dataset from the remote provider. Every
// method returns a new dataset; the input is never modified.
type HistoryService struct {
	source MatchSource
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewHistoryService(source MatchSource, idGen idgen.Generator, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}
	return &HistoryService{
		source: source,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// IngestMissingSeasons fetches every requested (code, season) pair that the
// dataset does not already hold, codes outer and seasons inner, pausing for
// the delay after each fetch. A failed fetch aborts the whole batch and
// nothing fetched so far is kept.
func (s *HistoryService) IngestMissingSeasons(ctx context.Context, dataset match.Dataset, input IngestInput) (match.Dataset, IngestReport, error) {
	ctx, span := startSpan(ctx, "HistoryService.IngestMissingSeasons")
	defer span.End()

	if input.Delay < 0 {
		return nil, IngestReport{}, fmt.Errorf("%w: delay must be >= 0", ErrInvalidInput)
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return nil, IngestReport{}, fmt.Errorf("generate ingest run id: %w", err)
	}
	report := IngestReport{RunID: runID}

	have := match.ExistingCompSeasons(dataset)
	pending := make([]match.CompSeason, 0, len(input.Codes)*len(input.Seasons))
	seen := make(map[match.CompSeason]struct{}, cap(pending))
	for _, code := range normalizeCodes(input.Codes) {
		for _, season := range input.Seasons {
			pair := match.CompSeason{Code: code, Season: season}
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}
			report.Requested = append(report.Requested, pair)
			if _, ok := have[pair]; ok {
				report.Skipped = append(report.Skipped, pair)
				continue
			}
			pending = append(pending, pair)
		}
	}
	span.SetAttributes(
		attribute.String("ingest.run_id", runID),
		attribute.Int("ingest.requested", len(report.Requested)),
		attribute.Int("ingest.pending", len(pending)),
	)

	logger := s.logger.With("run_id", runID)
	logger.InfoContext(ctx, "ingest missing seasons started",
		"requested", len(report.Requested),
		"skipped", len(report.Skipped),
		"pending", len(pending),
		"delay", input.Delay,
	)

	var incoming match.Dataset
	for _, pair := range pending {
		season := pair.Season
		payload, err := s.source.FetchCompetitionMatches(ctx, pair.Code, season)
		if err != nil {
			failSpan(span, err)
			logger.WarnContext(ctx, "ingest aborted on fetch error", "code", pair.Code, "season", season, "error", err)
			return nil, IngestReport{}, fmt.Errorf("fetch competition=%s season=%d: %w", pair.Code, season, err)
		}

		part := match.NormalizePayload(payload, &season)
		if len(part) > 0 {
			incoming = append(incoming, part...)
		}
		report.Fetched = append(report.Fetched, pair)
		report.RecordsFetched += len(part)
		logger.DebugContext(ctx, "fetched competition season", "code", pair.Code, "season", season, "records", len(part))

		if err := s.sleep(ctx, input.Delay); err != nil {
			return nil, IngestReport{}, fmt.Errorf("wait between requests: %w", err)
		}
	}

	merged := match.Merge(dataset, incoming)
	report.DatasetSize = len(merged)
	logger.InfoContext(ctx, "ingest missing seasons finished",
		"fetched", len(report.Fetched),
		"records_fetched", report.RecordsFetched,
		"dataset_size", report.DatasetSize,
	)
	return merged, report, nil
}

// RefreshRecent re-fetches finished matches from the trailing window and
// merges them in. An empty code list fetches all competitions.
func (s *HistoryService) RefreshRecent(ctx context.Context, dataset match.Dataset, input RefreshInput) (match.Dataset, RefreshReport, error) {
	ctx, span := startSpan(ctx, "HistoryService.RefreshRecent")
	defer span.End()

	runID, err := s.idGen.NewID()
	if err != nil {
		return nil, RefreshReport{}, fmt.Errorf("generate refresh run id: %w", err)
	}

	from, to := TrailingWindow(s.now())
	codes := normalizeCodes(input.Codes)
	span.SetAttributes(
		attribute.String("refresh.run_id", runID),
		attribute.String("refresh.from", from.Format(time.DateOnly)),
		attribute.String("refresh.to", to.Format(time.DateOnly)),
		attribute.StringSlice("refresh.codes", codes),
	)

	payload, err := s.source.FetchMatchesByDate(ctx, from, to, codes)
	if err != nil {
		failSpan(span, err)
		s.logger.WarnContext(ctx, "refresh recent failed", "run_id", runID, "error", err)
		return nil, RefreshReport{}, fmt.Errorf("fetch matches %s..%s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), err)
	}

	incoming := match.NormalizePayload(payload, nil)
	merged := match.Merge(dataset, incoming)

	report := RefreshReport{
		RunID:          runID,
		From:           from,
		To:             to,
		Codes:          codes,
		RecordsFetched: len(incoming),
		DatasetSize:    len(merged),
	}
	s.logger.InfoContext(ctx, "refresh recent finished",
		"run_id", runID,
		"from", from.Format(time.DateOnly),
		"to", to.Format(time.DateOnly),
		"codes", codes,
		"records_fetched", report.RecordsFetched,
		"dataset_size", report.DatasetSize,
	)
	return merged, report, nil
}

// TrailingWindow returns [today-7d, today] as UTC calendar dates.
func TrailingWindow(now time.Time) (from, to time.Time) {
	y, m, d := now.UTC().Date()
	to = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -RefreshWindowDays), to
}

// DefaultSeasons returns the last completed season start-years, oldest first.
func DefaultSeasons(now time.Time) []int {
	year := now.UTC().Year()
	out := make([]int, 0, DefaultSeasonCount)
	for i := DefaultSeasonCount; i >= 1; i-- {
		out = append(out, year-i)
	}
	return out
}

// SeasonOptions lists selectable season start-years, oldest first.
func SeasonOptions(now time.Time) []int {
	year := now.UTC().Year()
	out := make([]int, 0, SeasonLookback+1)
	for s := year - SeasonLookback; s <= year; s++ {
		out = append(out, s)
	}
	return out
}

func normalizeCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
