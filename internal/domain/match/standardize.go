package match

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one loosely typed row keyed by column name, as produced by a
// file reader or an external producer. Missing keys and nil values are allowed.
type RawRecord map[string]any

const storageTimeLayout = "2006-01-02 15:04:05.999999999"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatTimestamp renders a record date the way the durable cache stores it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(storageTimeLayout)
}

// ParseTimestamp accepts RFC 3339 timestamps and the naive layouts written by
// the durable cache. Offsets are converted to UTC and then dropped.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Standardize coerces raw rows into a dataset satisfying every record
// invariant. Rows with an unusable date, team or score are dropped; an
// unparseable season becomes UnknownSeason. The result is sorted by date and
// never nil.
func Standardize(rows []RawRecord) Dataset {
	out := make(Dataset, 0, len(rows))
	for _, row := range rows {
		record, ok := recordFromRaw(row)
		if !ok {
			continue
		}
		out = append(out, record)
	}
	sortByDate(out)
	return out
}

// StandardizeRecords applies the Standardize rules to already typed records
// and returns a fresh slice.
func StandardizeRecords(records Dataset) Dataset {
	out := make(Dataset, 0, len(records))
	for _, record := range records {
		if record.Date.IsZero() {
			continue
		}
		record.Date = record.Date.UTC()
		record.HomeTeam = strings.TrimSpace(record.HomeTeam)
		record.AwayTeam = strings.TrimSpace(record.AwayTeam)
		record.CompetitionName = strings.TrimSpace(record.CompetitionName)
		record.CompetitionCode = strings.TrimSpace(record.CompetitionCode)
		if record.HomeTeam == "" || record.AwayTeam == "" {
			continue
		}
		if record.HomeGoals < 0 || record.AwayGoals < 0 {
			continue
		}
		out = append(out, record)
	}
	sortByDate(out)
	return out
}

func recordFromRaw(row RawRecord) (Record, bool) {
	if row == nil {
		return Record{}, false
	}

	date, ok := coerceTime(row["Date"])
	if !ok {
		return Record{}, false
	}
	homeTeam := coerceText(row["HomeTeam"])
	awayTeam := coerceText(row["AwayTeam"])
	if homeTeam == "" || awayTeam == "" {
		return Record{}, false
	}
	homeGoals, ok := coerceGoals(row["FTHG"])
	if !ok {
		return Record{}, false
	}
	awayGoals, ok := coerceGoals(row["FTAG"])
	if !ok {
		return Record{}, false
	}

	return Record{
		Date:            date,
		HomeTeam:        homeTeam,
		AwayTeam:        awayTeam,
		HomeGoals:       homeGoals,
		AwayGoals:       awayGoals,
		CompetitionName: coerceText(row["Competition"]),
		CompetitionCode: coerceText(row["CompCode"]),
		Season:          coerceSeason(row["Season"]),
	}, true
}

func sortByDate(records Dataset) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}

func coerceTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if typed.IsZero() {
			return time.Time{}, false
		}
		return typed.UTC(), true
	case *time.Time:
		if typed == nil || typed.IsZero() {
			return time.Time{}, false
		}
		return typed.UTC(), true
	case string:
		return ParseTimestamp(typed)
	default:
		return time.Time{}, false
	}
}

func coerceText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func coerceGoals(value any) (int, bool) {
	n, ok := coerceNumber(value)
	if !ok || n < 0 || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

func coerceSeason(value any) int {
	n, ok := coerceNumber(value)
	if !ok {
		return UnknownSeason
	}
	return int(math.Trunc(n))
}

func coerceNumber(value any) (float64, bool) {
	var n float64
	switch typed := value.(type) {
	case int:
		n = float64(typed)
	case int32:
		n = float64(typed)
	case int64:
		n = float64(typed)
	case float32:
		n = float64(typed)
	case float64:
		n = typed
	case *int:
		if typed == nil {
			return 0, false
		}
		n = float64(*typed)
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		if parsed, err := strconv.Atoi(trimmed); err == nil {
			return float64(parsed), true
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
