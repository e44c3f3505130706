package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	b, _ := g.NewID()

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("unexpected id format %q: %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected a version 7 uuid, got %d", parsed.Version())
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if b < a {
		t.Fatalf("expected ids to sort by creation: %q then %q", a, b)
	}
}
