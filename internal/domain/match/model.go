package match

import (
	"time"
)

const (
	// UnknownSeason marks a record whose season could not be parsed.
	UnknownSeason = -1

	StatusFinished = "FINISHED"
)

// Columns is the fixed on-disk schema, in field order.
var Columns = []string{
	"Date",
	"HomeTeam",
	"AwayTeam",
	"FTHG",
	"FTAG",
	"Competition",
	"CompCode",
	"Season",
}

// Record is one completed, scored match.
type Record struct {
	Date            time.Time
	HomeTeam        string
	AwayTeam        string
	HomeGoals       int
	AwayGoals       int
	CompetitionName string
	CompetitionCode string
	Season          int
}

// Key identifies a logical match for de-duplication.
type Key struct {
	CompetitionCode string
	Season          int
	DateUnixNano    int64
	HomeTeam        string
	AwayTeam        string
	HomeGoals       int
	AwayGoals       int
}

func (r Record) Key() Key {
	return Key{
		CompetitionCode: r.CompetitionCode,
		Season:          r.Season,
		DateUnixNano:    r.Date.UnixNano(),
		HomeTeam:        r.HomeTeam,
		AwayTeam:        r.AwayTeam,
		HomeGoals:       r.HomeGoals,
		AwayGoals:       r.AwayGoals,
	}
}

// CompSeason is a (competition code, season start-year) pair.
type CompSeason struct {
	Code   string
	Season int
}

// Dataset is an ordered collection of records. A nil Dataset means "absent";
// an empty non-nil Dataset is a valid dataset with zero rows.
type Dataset []Record

// Span returns the first and last match dates of a date-sorted dataset.
func (d Dataset) Span() (first, last time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d[0].Date, d[len(d)-1].Date, true
}

// Tail returns a copy of the last n records.
func (d Dataset) Tail(n int) Dataset {
	if n <= 0 || len(d) == 0 {
		return Dataset{}
	}
	if n > len(d) {
		n = len(d)
	}
	out := make(Dataset, n)
	copy(out, d[len(d)-n:])
	return out
}

// TrainingRow is the projection handed to the model-training step.
type TrainingRow struct {
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
}

func (d Dataset) TrainingRows() []TrainingRow {
	out := make([]TrainingRow, 0, len(d))
	for _, r := range d {
		out = append(out, TrainingRow{
			Date:      r.Date,
			HomeTeam:  r.HomeTeam,
			AwayTeam:  r.AwayTeam,
			HomeGoals: r.HomeGoals,
			AwayGoals: r.AwayGoals,
		})
	}
	return out
}
