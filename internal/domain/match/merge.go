package match

// Merge combines existing and incoming records into one standardized,
// de-duplicated, date-sorted dataset. When two records share an identity key
// the later one wins, so incoming replaces existing on collision.
//
// Merge is the only path through which a dataset changes.
func Merge(existing, incoming Dataset) Dataset {
	left := StandardizeRecords(existing)
	right := StandardizeRecords(incoming)

	combined := make(Dataset, 0, len(left)+len(right))
	combined = append(combined, left...)
	combined = append(combined, right...)

	lastIndex := make(map[Key]int, len(combined))
	for idx, record := range combined {
		lastIndex[record.Key()] = idx
	}

	out := make(Dataset, 0, len(lastIndex))
	for idx, record := range combined {
		if lastIndex[record.Key()] != idx {
			continue
		}
		out = append(out, record)
	}
	sortByDate(out)
	return out
}

// ExistingCompSeasons indexes the (competition, season) pairs present in a
// dataset. The dataset is not modified.
func ExistingCompSeasons(records Dataset) map[CompSeason]struct{} {
	standardized := StandardizeRecords(records)
	out := make(map[CompSeason]struct{}, 16)
	for _, record := range standardized {
		out[CompSeason{Code: record.CompetitionCode, Season: record.Season}] = struct{}{}
	}
	return out
}
