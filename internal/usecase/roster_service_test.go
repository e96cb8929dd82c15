package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
)

func TestRosterService_Save_CreateThenUpdate(t *testing.T) {
	rosterRepo := memory.NewRosterRepository(nil)
	service := NewRosterService(rosterRepo, &seqIDGenerator{prefix: "call"})

	savedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return savedAt }

	created, err := service.Save(t.Context(), SaveRosterInput{
		MatchID: "vbl-2026-semi",
		TeamID:  memory.TeamIDHarbor,
		Entries: []roster.Entry{
			{ProfileID: "hrb-01", FirstName: "Maren", LastName: "Steiner", ShirtNumber: 1, IsCaptain: true},
			{ProfileID: "hrb-02", FirstName: "Ilse", LastName: "Brandt", ShirtNumber: 4},
		},
	})
	if err != nil {
		t.Fatalf("save create failed: %v", err)
	}
	if created.ID != "call-001" {
		t.Fatalf("expected generated id call-001, got %s", created.ID)
	}
	if !created.UpdatedAt.Equal(savedAt) {
		t.Fatalf("expected updated_at %v, got %v", savedAt, created.UpdatedAt)
	}

	updated, err := service.Save(t.Context(), SaveRosterInput{
		MatchID: "vbl-2026-semi",
		TeamID:  memory.TeamIDHarbor,
		Entries: append(created.Entries, roster.Entry{ProfileID: "hrb-03", FirstName: "Tuva", LastName: "Holm", ShirtNumber: 7}),
	})
	if err != nil {
		t.Fatalf("save update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same id on update, got %s vs %s", updated.ID, created.ID)
	}
	if len(updated.Entries) != 3 {
		t.Fatalf("expected 3 entries after update, got %d", len(updated.Entries))
	}
}

func TestRosterService_Save_RejectsInvariantViolations(t *testing.T) {
	tests := []struct {
		name    string
		entries []roster.Entry
		wantErr error
	}{
		{
			name: "two captains",
			entries: []roster.Entry{
				{ProfileID: "a", ShirtNumber: 1, IsCaptain: true},
				{ProfileID: "b", ShirtNumber: 2, IsCaptain: true},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate shirt number",
			entries: []roster.Entry{
				{ProfileID: "a", ShirtNumber: 5},
				{ProfileID: "b", ShirtNumber: 5},
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := NewRosterService(memory.NewRosterRepository(nil), &seqIDGenerator{prefix: "call"})
			_, err := service.Save(t.Context(), SaveRosterInput{
				MatchID: "vbl-2026-semi",
				TeamID:  memory.TeamIDHarbor,
				Entries: tc.entries,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestRosterService_Lock_FreezesSaves(t *testing.T) {
	rosterRepo := memory.NewRosterRepository(memory.SeedRosters())
	service := NewRosterService(rosterRepo, &seqIDGenerator{prefix: "call"})

	locked, err := service.Lock(t.Context(), memory.MatchIDDemoFinal, memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if !locked.Locked {
		t.Fatalf("expected roster locked")
	}

	again, err := service.Lock(t.Context(), memory.MatchIDDemoFinal, memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("second lock failed: %v", err)
	}
	if again.ID != locked.ID {
		t.Fatalf("expected idempotent lock, got %s vs %s", again.ID, locked.ID)
	}

	_, err = service.Save(t.Context(), SaveRosterInput{
		MatchID: memory.MatchIDDemoFinal,
		TeamID:  memory.TeamIDHarbor,
		Entries: locked.Entries,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected locked roster to reject save, got %v", err)
	}
	// The domain sentinel has to survive the wrap so the HTTP layer can map
	// lock conflicts separately from plain bad input.
	if !errors.Is(err, roster.ErrRosterLocked) {
		t.Fatalf("expected ErrRosterLocked to stay matchable, got %v", err)
	}

	if _, err := service.Lock(t.Context(), memory.MatchIDDemoFinal, "vbc-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got %v", err)
	}
}
