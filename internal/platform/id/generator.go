package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 128-bit hex IDs carrying an entity prefix, so a
// stray ID in a log line still says what it identifies ("snc-3f2a...").
type RandomGenerator struct {
	prefix string
}

// NewRandomGenerator returns a generator for one entity kind. The prefix may
// be empty, in which case IDs are bare hex.
func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if g.prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return g.prefix + "-" + hex.EncodeToString(buf), nil
}
