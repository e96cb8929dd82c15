package id

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestRandomGenerator_PrefixedIDs(t *testing.T) {
	gen := NewRandomGenerator("snc")

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id failed: %v", err)
	}
	if !strings.HasPrefix(first, "snc-") {
		t.Fatalf("expected snc- prefix, got %q", first)
	}
	if raw := strings.TrimPrefix(first, "snc-"); len(raw) != 32 {
		t.Fatalf("expected 32 hex chars after prefix, got %q", raw)
	} else if _, decodeErr := hex.DecodeString(raw); decodeErr != nil {
		t.Fatalf("expected hex payload, got %q: %v", raw, decodeErr)
	}

	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}

func TestRandomGenerator_EmptyPrefixIsBareHex(t *testing.T) {
	gen := NewRandomGenerator("")

	id, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id failed: %v", err)
	}
	if len(id) != 32 || strings.Contains(id, "-") {
		t.Fatalf("expected bare 32-char hex id, got %q", id)
	}
	if _, decodeErr := hex.DecodeString(id); decodeErr != nil {
		t.Fatalf("expected hex id, got %q: %v", id, decodeErr)
	}
}
