package usecase

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/rotation"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRotationFixture() (*RotationService, *memory.RotationRepository) {
	rosterRepo := memory.NewRosterRepository(memory.SeedRosters())
	rotationRepo := memory.NewRotationRepository(memory.SeedRotations())
	service := NewRotationService(rosterRepo, rotationRepo, &seqIDGenerator{prefix: "rot"}, discardLogger())
	return service, rotationRepo
}

func TestRotationService_Substitute_OpenRotation(t *testing.T) {
	service, _ := newRotationFixture()
	service.now = func() time.Time { return time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC) }

	next, err := service.Substitute(t.Context(), SubstitutionInput{
		MatchID:    memory.MatchIDDemoFinal,
		TeamID:     memory.TeamIDHarbor,
		CallID:     memory.CallIDHarbor,
		SetID:      memory.SetIDFirst,
		OutgoingID: "hrb-02",
		IncomingID: "hrb-07",
	})
	if err != nil {
		t.Fatalf("substitute failed: %v", err)
	}

	if next.ID != "rot-harbor-1" {
		t.Fatalf("expected substitution on the open rotation, got %s", next.ID)
	}
	if next.Number != 1 {
		t.Fatalf("expected rotation number 1, got %d", next.Number)
	}

	slot, ok := rotation.CurrentSlot(next, "hrb-07")
	if !ok {
		t.Fatalf("expected hrb-07 on court after substitution")
	}
	if slot.Position != 2 {
		t.Fatalf("expected inherited position 2, got %d", slot.Position)
	}
	if !slot.IsLibero {
		t.Fatalf("expected libero flag from the incoming player's roster entry")
	}
	if _, ok := rotation.CurrentSlot(next, "hrb-02"); ok {
		t.Fatalf("expected hrb-02 off court after substitution")
	}
}

func TestRotationService_Substitute_LockedRotationGetsSuccessor(t *testing.T) {
	service, rotationRepo := newRotationFixture()

	if _, err := service.Lock(t.Context(), memory.CallIDHarbor, memory.SetIDFirst); err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	next, err := service.Substitute(t.Context(), SubstitutionInput{
		MatchID:    memory.MatchIDDemoFinal,
		TeamID:     memory.TeamIDHarbor,
		CallID:     memory.CallIDHarbor,
		SetID:      memory.SetIDFirst,
		OutgoingID: "hrb-03",
		IncomingID: "hrb-08",
	})
	if err != nil {
		t.Fatalf("substitute on locked rotation failed: %v", err)
	}

	if next.ID == "rot-harbor-1" {
		t.Fatalf("expected a successor rotation, got the locked one")
	}
	if next.Number != 2 {
		t.Fatalf("expected successor number 2, got %d", next.Number)
	}
	if next.Locked {
		t.Fatalf("expected successor to be open")
	}

	locked, exists, err := rotationRepo.GetByID(t.Context(), "rot-harbor-1")
	if err != nil || !exists {
		t.Fatalf("expected locked rotation to remain stored: exists=%v err=%v", exists, err)
	}
	if _, ok := rotation.CurrentSlot(locked, "hrb-08"); ok {
		t.Fatalf("locked rotation must not be mutated by the substitution")
	}

	history, err := service.CurrentIndex(t.Context(), memory.CallIDHarbor, memory.SetIDFirst)
	if err != nil {
		t.Fatalf("current index failed: %v", err)
	}
	if got := history[memory.TeamIDHarbor]["hrb-08"]; got != 2 {
		t.Fatalf("expected hrb-08 indexed at rotation 2, got %d", got)
	}
}

func TestRotationService_Substitute_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(input *SubstitutionInput)
		wantErr  error
		wantRule error
	}{
		{
			name:    "incoming not on roster",
			mutate:  func(input *SubstitutionInput) { input.IncomingID = "grn-01" },
			wantErr: ErrInvalidInput,
		},
		{
			name:     "outgoing not on court",
			mutate:   func(input *SubstitutionInput) { input.OutgoingID = "hrb-08" },
			wantErr:  ErrInvalidInput,
			wantRule: rotation.ErrPlayerNotOnCourt,
		},
		{
			name:     "incoming already on court",
			mutate:   func(input *SubstitutionInput) { input.IncomingID = "hrb-01" },
			wantErr:  ErrInvalidInput,
			wantRule: rotation.ErrPlayerAlreadyOnCourt,
		},
		{
			name:    "unknown roster",
			mutate:  func(input *SubstitutionInput) { input.TeamID = "vbc-ghost" },
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown rotation",
			mutate:  func(input *SubstitutionInput) { input.SetID = "set-5" },
			wantErr: ErrNotFound,
		},
		{
			name:    "missing identities",
			mutate:  func(input *SubstitutionInput) { input.OutgoingID = " " },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newRotationFixture()
			input := SubstitutionInput{
				MatchID:    memory.MatchIDDemoFinal,
				TeamID:     memory.TeamIDHarbor,
				CallID:     memory.CallIDHarbor,
				SetID:      memory.SetIDFirst,
				OutgoingID: "hrb-02",
				IncomingID: "hrb-07",
			}
			tc.mutate(&input)

			_, err := service.Substitute(t.Context(), input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantRule != nil && !errors.Is(err, tc.wantRule) {
				t.Fatalf("expected rule error %v to stay matchable, got %v", tc.wantRule, err)
			}
		})
	}
}

func TestRotationService_Lock_Idempotent(t *testing.T) {
	service, _ := newRotationFixture()

	first, err := service.Lock(t.Context(), memory.CallIDHarbor, memory.SetIDFirst)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	if !first.Locked {
		t.Fatalf("expected rotation locked")
	}

	second, err := service.Lock(t.Context(), memory.CallIDHarbor, memory.SetIDFirst)
	if err != nil {
		t.Fatalf("second lock failed: %v", err)
	}
	if second.ID != first.ID || !second.Locked {
		t.Fatalf("expected idempotent lock on %s, got %s locked=%v", first.ID, second.ID, second.Locked)
	}
}
