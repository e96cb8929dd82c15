package cache

import (
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
	basecache "github.com/courtside/matchcontrol/internal/platform/cache"
)

func TestRosterRepository_ReadThroughAndInvalidateOnUpsert(t *testing.T) {
	inner := memory.NewRosterRepository(memory.SeedRosters())
	repo := NewRosterRepository(inner, basecache.NewStore(time.Minute))

	first, exists, err := repo.GetByMatchAndTeam(t.Context(), memory.MatchIDDemoFinal, memory.TeamIDHarbor)
	if err != nil || !exists {
		t.Fatalf("get roster failed: exists=%v err=%v", exists, err)
	}

	// Write through the inner repo directly; the cached read must not see it.
	stale := first
	stale.Entries = stale.Entries[:len(stale.Entries)-1]
	if err := inner.Upsert(t.Context(), stale); err != nil {
		t.Fatalf("inner upsert failed: %v", err)
	}

	cached, _, err := repo.GetByMatchAndTeam(t.Context(), memory.MatchIDDemoFinal, memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("cached get failed: %v", err)
	}
	if len(cached.Entries) != len(first.Entries) {
		t.Fatalf("expected cached roster with %d entries, got %d", len(first.Entries), len(cached.Entries))
	}

	// An upsert through the decorator invalidates both lookup keys.
	if err := repo.Upsert(t.Context(), stale); err != nil {
		t.Fatalf("decorated upsert failed: %v", err)
	}
	fresh, _, err := repo.GetByMatchAndTeam(t.Context(), memory.MatchIDDemoFinal, memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("fresh get failed: %v", err)
	}
	if len(fresh.Entries) != len(stale.Entries) {
		t.Fatalf("expected invalidated read with %d entries, got %d", len(stale.Entries), len(fresh.Entries))
	}
}

func TestRotationRepository_UpsertInvalidatesCurrent(t *testing.T) {
	inner := memory.NewRotationRepository(memory.SeedRotations())
	repo := NewRotationRepository(inner, basecache.NewStore(time.Minute))

	current, exists, err := repo.GetCurrent(t.Context(), memory.CallIDHarbor, memory.SetIDFirst)
	if err != nil || !exists {
		t.Fatalf("get current failed: exists=%v err=%v", exists, err)
	}

	next := current
	next.ID = "rot-cache-test"
	next.Number = current.Number + 1
	if err := repo.Upsert(t.Context(), next); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	refreshed, _, err := repo.GetCurrent(t.Context(), memory.CallIDHarbor, memory.SetIDFirst)
	if err != nil {
		t.Fatalf("refreshed get failed: %v", err)
	}
	if refreshed.ID != next.ID {
		t.Fatalf("expected refreshed current %q, got %q", next.ID, refreshed.ID)
	}
}
