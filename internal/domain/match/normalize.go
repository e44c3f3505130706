package match

import (
	"strings"
)

// NormalizePayload converts a matches response into records. Entries that are
// not finished, lack a full-time score or carry an unparseable date are
// dropped without error.
//
// When seasonHint is nil the season is taken from the match year, which is
// wrong for seasons spanning two calendar years; callers fetching by season
// should always pass the hint.
func NormalizePayload(payload Payload, seasonHint *int) Dataset {
	out := make(Dataset, 0, len(payload.Matches))
	for _, item := range payload.Matches {
		if strings.ToUpper(strings.TrimSpace(item.Status)) != StatusFinished {
			continue
		}
		fullTime := item.Score.FullTime
		if fullTime.Home == nil || fullTime.Away == nil {
			continue
		}
		date, ok := ParseTimestamp(item.UTCDate)
		if !ok {
			continue
		}

		season := date.Year()
		if seasonHint != nil {
			season = *seasonHint
		}

		out = append(out, Record{
			Date:            date,
			HomeTeam:        item.HomeTeam.Name,
			AwayTeam:        item.AwayTeam.Name,
			HomeGoals:       *fullTime.Home,
			AwayGoals:       *fullTime.Away,
			CompetitionName: item.Competition.Name,
			CompetitionCode: item.Competition.Code,
			Season:          season,
		})
	}
	return StandardizeRecords(out)
}
