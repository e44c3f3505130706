package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for ingestion runs.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator issues UUIDv7 ids, which sort by creation time.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return v.String(), nil
}
