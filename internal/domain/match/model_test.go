package match

import "testing"

func TestDataset_SpanTailAndTrainingRows(t *testing.T) {
	t.Parallel()

	dataset := Merge(nil, Dataset{
		record("2024-05-19 15:00:00", "Liverpool FC", "Wolverhampton Wanderers FC", 2, 0, "PL", 2023),
		record("2023-08-11 19:00:00", "Burnley FC", "Manchester City FC", 0, 3, "PL", 2023),
		record("2024-01-02 19:15:00", "Manchester United FC", "West Ham United FC", 3, 0, "PL", 2023),
	})

	first, last, ok := dataset.Span()
	if !ok {
		t.Fatalf("expected span for non-empty dataset")
	}
	if first.Year() != 2023 || last.Year() != 2024 || last.Month() != 5 {
		t.Fatalf("unexpected span: %s -> %s", first, last)
	}

	tail := dataset.Tail(2)
	if len(tail) != 2 || tail[1].HomeTeam != "Liverpool FC" {
		t.Fatalf("unexpected tail: %+v", tail)
	}
	tail[0].HomeTeam = "mutated"
	if dataset[1].HomeTeam == "mutated" {
		t.Fatalf("tail must not alias the dataset")
	}
	if got := dataset.Tail(10); len(got) != 3 {
		t.Fatalf("expected tail capped at dataset size, got=%d", len(got))
	}

	rows := dataset.TrainingRows()
	if len(rows) != 3 || rows[0].HomeTeam != "Burnley FC" || rows[0].AwayGoals != 3 {
		t.Fatalf("unexpected training rows: %+v", rows)
	}

	if _, _, ok := (Dataset{}).Span(); ok {
		t.Fatalf("expected no span for empty dataset")
	}
}
