package match

import (
	"reflect"
	"testing"
	"time"
)

func TestStandardize_CoercesAndDropsInvalidRows(t *testing.T) {
	t.Parallel()

	rows := []RawRecord{
		{
			"Date":        "2023-08-12 14:00:00",
			"HomeTeam":    "  Arsenal FC ",
			"AwayTeam":    "Nottingham Forest FC",
			"FTHG":        "2",
			"FTAG":        float64(1),
			"Competition": " Premier League",
			"CompCode":    "PL ",
			"Season":      "2023.0",
		},
		{
			"Date":     "not-a-date",
			"HomeTeam": "A",
			"AwayTeam": "B",
			"FTHG":     1,
			"FTAG":     1,
		},
		{
			"Date":     "2023-08-11T19:00:00Z",
			"HomeTeam": "Burnley FC",
			"AwayTeam": nil,
			"FTHG":     0,
			"FTAG":     3,
		},
		{
			"Date":     "2023-08-11T21:00:00+02:00",
			"HomeTeam": "Burnley FC",
			"AwayTeam": "Manchester City FC",
			"FTHG":     0,
			"FTAG":     3,
			"Season":   "unknown",
		},
		{
			"Date":     "2023-08-13",
			"HomeTeam": "Brentford FC",
			"AwayTeam": "Tottenham Hotspur FC",
			"FTHG":     "x",
			"FTAG":     2,
		},
	}

	got := Standardize(rows)
	if len(got) != 2 {
		t.Fatalf("expected two valid rows, got=%d (%+v)", len(got), got)
	}

	first := got[0]
	if !first.Date.Equal(time.Date(2023, 8, 11, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected offset converted to UTC, got=%s", first.Date)
	}
	if first.Date.Location() != time.UTC {
		t.Fatalf("expected UTC location, got=%s", first.Date.Location())
	}
	if first.Season != UnknownSeason {
		t.Fatalf("expected unknown season sentinel, got=%d", first.Season)
	}
	if first.CompetitionCode != "" || first.CompetitionName != "" {
		t.Fatalf("expected missing competition columns to be empty, got=%q/%q", first.CompetitionCode, first.CompetitionName)
	}

	second := got[1]
	if second.HomeTeam != "Arsenal FC" || second.CompetitionName != "Premier League" || second.CompetitionCode != "PL" {
		t.Fatalf("expected trimmed strings, got=%+v", second)
	}
	if second.HomeGoals != 2 || second.AwayGoals != 1 || second.Season != 2023 {
		t.Fatalf("unexpected numeric coercion: %+v", second)
	}
}

func TestStandardize_EmptyInputYieldsEmptyDataset(t *testing.T) {
	t.Parallel()

	for name, rows := range map[string][]RawRecord{
		"nil":   nil,
		"empty": {},
		"junk":  {{"Date": ""}, nil},
	} {
		got := Standardize(rows)
		if got == nil {
			t.Fatalf("%s: expected non-nil dataset", name)
		}
		if len(got) != 0 {
			t.Fatalf("%s: expected zero rows, got=%d", name, len(got))
		}
	}

	if got := StandardizeRecords(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected non-nil empty dataset from StandardizeRecords(nil), got=%#v", got)
	}
}

func TestStandardizeRecords_IsIdempotent(t *testing.T) {
	t.Parallel()

	input := Dataset{
		record("2024-03-02 15:00:00", " Liverpool FC", "Brighton & Hove Albion FC ", 2, 1, "PL", 2023),
		record("2024-01-20 12:30:00", "Real Madrid CF", "UD Almería", 3, 2, "PD", 2023),
		record("2024-01-20 12:30:00", "Getafe CF", "Sevilla FC", 1, 0, "PD", 2023),
		{Date: time.Time{}, HomeTeam: "No", AwayTeam: "Date"},
		record("2023-09-01 18:00:00", "", "Empty Home", 1, 1, "PD", 2023),
		record("2023-09-02 18:00:00", "Negative", "Goals", -1, 1, "PD", 2023),
	}

	once := StandardizeRecords(input)
	twice := StandardizeRecords(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("standardize is not idempotent:\nonce=%+v\ntwice=%+v", once, twice)
	}
	if len(once) != 3 {
		t.Fatalf("expected three valid rows, got=%d", len(once))
	}
	assertSortedByDate(t, once)

	// equal dates keep their input order
	if once[0].HomeTeam != "Real Madrid CF" || once[1].HomeTeam != "Getafe CF" {
		t.Fatalf("expected stable order for equal dates, got=%s,%s", once[0].HomeTeam, once[1].HomeTeam)
	}
}

func TestStandardize_RawAndTypedAgree(t *testing.T) {
	t.Parallel()

	typed := Dataset{
		record("2022-05-22 15:00:00", "Manchester City FC", "Aston Villa FC", 3, 2, "PL", 2021),
	}
	raw := []RawRecord{{
		"Date":        FormatTimestamp(typed[0].Date),
		"HomeTeam":    typed[0].HomeTeam,
		"AwayTeam":    typed[0].AwayTeam,
		"FTHG":        "3",
		"FTAG":        "2",
		"Competition": typed[0].CompetitionName,
		"CompCode":    "PL",
		"Season":      "2021",
	}}

	if got := Standardize(raw); !reflect.DeepEqual(got, StandardizeRecords(typed)) {
		t.Fatalf("raw and typed standardization differ:\nraw=%+v\ntyped=%+v", got, typed)
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)
	for _, input := range []string{
		"2024-06-15T18:30:00Z",
		"2024-06-15T20:30:00+02:00",
		"2024-06-15 18:30:00",
		"2024-06-15T18:30:00",
		" 2024-06-15 18:30 ",
	} {
		got, ok := ParseTimestamp(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parse %q: got=%s want=%s", input, got, want)
		}
	}

	if _, ok := ParseTimestamp("15/06/2024"); ok {
		t.Fatalf("expected unsupported layout to fail")
	}
}

func record(date, home, away string, homeGoals, awayGoals int, code string, season int) Record {
	parsed, ok := ParseTimestamp(date)
	if !ok {
		panic("bad test date " + date)
	}
	return Record{
		Date:            parsed,
		HomeTeam:        home,
		AwayTeam:        away,
		HomeGoals:       homeGoals,
		AwayGoals:       awayGoals,
		CompetitionName: competitionNames[code],
		CompetitionCode: code,
		Season:          season,
	}
}

var competitionNames = map[string]string{
	"PL":  "Premier League",
	"PD":  "Primera Division",
	"BL1": "Bundesliga",
	"SA":  "Serie A",
}

func assertSortedByDate(t *testing.T, records Dataset) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Fatalf("records not sorted by date at index %d: %s before %s", i, records[i].Date, records[i-1].Date)
		}
	}
}
