package httpapi

import (
	"time"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/usecase"
)

const dateTimeLayout = "2006-01-02 15:04:05"

type ingestRequest struct {
	Codes        []string `json:"codes" validate:"omitempty,max=50,dive,required,alphanum,max=10"`
	Seasons      []int    `json:"seasons" validate:"omitempty,max=50,dive,gte=1900,lte=2100"`
	DelaySeconds *float64 `json:"delay" validate:"omitempty,gte=0,lte=60"`
}

type refreshRequest struct {
	Codes []string `json:"codes" validate:"omitempty,max=50,dive,required,alphanum,max=10"`
}

type competitionDTO struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	AreaName string `json:"area_name"`
	Type     string `json:"type,omitempty"`
}

type catalogDTO struct {
	Competitions        []competitionDTO `json:"competitions"`
	DefaultCodes        []string         `json:"default_codes"`
	DefaultSeasons      []int            `json:"default_seasons"`
	SeasonOptions       []int            `json:"season_options"`
	DefaultDelaySeconds float64          `json:"default_delay_seconds"`
	MaxDelaySeconds     float64          `json:"max_delay_seconds"`
	FetchedAt           string           `json:"fetched_at,omitempty"`
}

type recordDTO struct {
	Date            string `json:"date"`
	HomeTeam        string `json:"home_team"`
	AwayTeam        string `json:"away_team"`
	HomeGoals       int    `json:"fthg"`
	AwayGoals       int    `json:"ftag"`
	CompetitionName string `json:"competition"`
	CompetitionCode string `json:"comp_code"`
	Season          int    `json:"season"`
}

type trainingRowDTO struct {
	Date      string `json:"date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeGoals int    `json:"fthg"`
	AwayGoals int    `json:"ftag"`
}

type summaryDTO struct {
	Loaded  bool        `json:"loaded"`
	Rows    int         `json:"rows"`
	From    string      `json:"from,omitempty"`
	To      string      `json:"to,omitempty"`
	Preview []recordDTO `json:"preview"`
}

type compSeasonDTO struct {
	Code   string `json:"code"`
	Season int    `json:"season"`
}

type ingestReportDTO struct {
	RunID          string          `json:"run_id"`
	Requested      []compSeasonDTO `json:"requested"`
	Fetched        []compSeasonDTO `json:"fetched"`
	Skipped        []compSeasonDTO `json:"skipped"`
	RecordsFetched int             `json:"records_fetched"`
	DatasetSize    int             `json:"dataset_size"`
}

type refreshReportDTO struct {
	RunID          string   `json:"run_id"`
	From           string   `json:"from"`
	To             string   `json:"to"`
	Codes          []string `json:"codes"`
	RecordsFetched int      `json:"records_fetched"`
	DatasetSize    int      `json:"dataset_size"`
}

type ingestResultDTO struct {
	Report  ingestReportDTO `json:"report"`
	Summary summaryDTO      `json:"summary"`
}

type refreshResultDTO struct {
	Report  refreshReportDTO `json:"report"`
	Summary summaryDTO       `json:"summary"`
}

func catalogToDTO(catalog usecase.Catalog, defaultSeasons, seasonOptions []int, delay time.Duration) catalogDTO {
	items := make([]competitionDTO, 0, len(catalog.Competitions))
	for _, item := range catalog.Competitions {
		items = append(items, competitionToDTO(item))
	}
	out := catalogDTO{
		Competitions:        items,
		DefaultCodes:        nonNilStrings(catalog.DefaultCodes),
		DefaultSeasons:      defaultSeasons,
		SeasonOptions:       seasonOptions,
		DefaultDelaySeconds: delay.Seconds(),
		MaxDelaySeconds:     config.MaxRequestDelay.Seconds(),
	}
	if !catalog.FetchedAt.IsZero() {
		out.FetchedAt = catalog.FetchedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func competitionToDTO(v competition.Summary) competitionDTO {
	return competitionDTO{
		Code:     v.Code,
		Name:     v.Name,
		AreaName: v.AreaName,
		Type:     v.Type,
	}
}

func recordToDTO(v match.Record) recordDTO {
	return recordDTO{
		Date:            v.Date.UTC().Format(dateTimeLayout),
		HomeTeam:        v.HomeTeam,
		AwayTeam:        v.AwayTeam,
		HomeGoals:       v.HomeGoals,
		AwayGoals:       v.AwayGoals,
		CompetitionName: v.CompetitionName,
		CompetitionCode: v.CompetitionCode,
		Season:          v.Season,
	}
}

func trainingRowToDTO(v match.TrainingRow) trainingRowDTO {
	return trainingRowDTO{
		Date:      v.Date.UTC().Format(dateTimeLayout),
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		HomeGoals: v.HomeGoals,
		AwayGoals: v.AwayGoals,
	}
}

func summaryToDTO(v usecase.HistorySummary) summaryDTO {
	out := summaryDTO{
		Loaded:  v.Loaded,
		Rows:    v.Rows,
		Preview: make([]recordDTO, 0, len(v.Preview)),
	}
	if v.Rows > 0 {
		out.From = v.First.UTC().Format(dateTimeLayout)
		out.To = v.Last.UTC().Format(dateTimeLayout)
	}
	for _, record := range v.Preview {
		out.Preview = append(out.Preview, recordToDTO(record))
	}
	return out
}

func compSeasonsToDTO(items []match.CompSeason) []compSeasonDTO {
	out := make([]compSeasonDTO, 0, len(items))
	for _, item := range items {
		out = append(out, compSeasonDTO{Code: item.Code, Season: item.Season})
	}
	return out
}

func ingestReportToDTO(v usecase.IngestReport) ingestReportDTO {
	return ingestReportDTO{
		RunID:          v.RunID,
		Requested:      compSeasonsToDTO(v.Requested),
		Fetched:        compSeasonsToDTO(v.Fetched),
		Skipped:        compSeasonsToDTO(v.Skipped),
		RecordsFetched: v.RecordsFetched,
		DatasetSize:    v.DatasetSize,
	}
}

func refreshReportToDTO(v usecase.RefreshReport) refreshReportDTO {
	return refreshReportDTO{
		RunID:          v.RunID,
		From:           v.From.Format(time.DateOnly),
		To:             v.To.Format(time.DateOnly),
		Codes:          nonNilStrings(v.Codes),
		RecordsFetched: v.RecordsFetched,
		DatasetSize:    v.DatasetSize,
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
