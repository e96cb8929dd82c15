package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
)

type recordingSink struct {
	mu    sync.Mutex
	items []injury.Injury
	err   error
}

func (s *recordingSink) PublishInjury(_ context.Context, item injury.Injury) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

func newInjuryFixture(sinks ...InjurySink) (*InjuryService, *memory.RotationRepository) {
	rosterRepo := memory.NewRosterRepository(memory.SeedRosters())
	rotationRepo := memory.NewRotationRepository(memory.SeedRotations())
	injuryRepo := memory.NewInjuryRepository()
	service := NewInjuryService(rosterRepo, rotationRepo, injuryRepo, &seqIDGenerator{prefix: "inj"}, sinks, discardLogger())
	return service, rotationRepo
}

func validReport() injury.Report {
	return injury.Report{
		GameID:     memory.MatchIDDemoFinal,
		SetID:      memory.SetIDFirst,
		RotationID: "rot-harbor-1",
		TeamID:     memory.TeamIDHarbor,
		Items: []injury.ReportItem{
			{
				PlayerRotationID:     "rot-harbor-1",
				ProfileID:            "hrb-02",
				ReplacementProfileID: "hrb-07",
				Description:          "rolled ankle on landing",
			},
		},
	}
}

func TestInjuryService_Submit_ForcesSubstitutionAndBroadcasts(t *testing.T) {
	sink := &recordingSink{}
	service, _ := newInjuryFixture(sink)
	reportedAt := time.Date(2026, 3, 14, 19, 42, 0, 0, time.UTC)
	service.now = func() time.Time { return reportedAt }

	result, err := service.Submit(t.Context(), validReport())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(result.Injuries) != 1 {
		t.Fatalf("expected 1 stored injury, got %d", len(result.Injuries))
	}
	stored := result.Injuries[0]
	if stored.ProfileID != "hrb-02" || stored.ReplacementProfileID != "hrb-07" {
		t.Fatalf("unexpected injury pair: out=%s in=%s", stored.ProfileID, stored.ReplacementProfileID)
	}
	if !stored.IsLibero {
		t.Fatalf("expected libero flag from the replacement's roster entry")
	}
	if !stored.ReportedAt.Equal(reportedAt) {
		t.Fatalf("expected reported_at %v, got %v", reportedAt, stored.ReportedAt)
	}

	if _, ok := rotation.CurrentSlot(result.Rotation, "hrb-07"); !ok {
		t.Fatalf("expected replacement on court after submit")
	}
	if _, ok := rotation.CurrentSlot(result.Rotation, "hrb-02"); ok {
		t.Fatalf("expected injured player off court after submit")
	}

	listed, err := service.ListByGame(t.Context(), memory.MatchIDDemoFinal)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != stored.ID {
		t.Fatalf("expected the stored injury in the game log, got %+v", listed)
	}

	if len(sink.items) != 1 || sink.items[0].ID != stored.ID {
		t.Fatalf("expected the injury broadcast to the sink, got %+v", sink.items)
	}
}

func TestInjuryService_Submit_LockedRotationLandsOnSuccessor(t *testing.T) {
	service, rotationRepo := newInjuryFixture()

	current, _, err := rotationRepo.GetByID(t.Context(), "rot-harbor-1")
	if err != nil {
		t.Fatalf("get rotation: %v", err)
	}
	current.Locked = true
	if err := rotationRepo.Upsert(t.Context(), current); err != nil {
		t.Fatalf("lock rotation: %v", err)
	}

	result, err := service.Submit(t.Context(), validReport())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if result.Rotation.ID == "rot-harbor-1" {
		t.Fatalf("expected the substitution on a successor rotation")
	}
	if result.Rotation.Number != 2 {
		t.Fatalf("expected successor number 2, got %d", result.Rotation.Number)
	}
	if result.Injuries[0].RotationID != result.Rotation.ID {
		t.Fatalf("expected injury to reference the successor rotation")
	}

	locked, _, err := rotationRepo.GetByID(t.Context(), "rot-harbor-1")
	if err != nil {
		t.Fatalf("get locked rotation: %v", err)
	}
	if _, ok := rotation.CurrentSlot(locked, "hrb-07"); ok {
		t.Fatalf("locked rotation must not be mutated")
	}
}

func TestInjuryService_Submit_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(report *injury.Report)
		wantErr  error
		wantRule error
	}{
		{
			name:    "missing game id",
			mutate:  func(report *injury.Report) { report.GameID = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "description too short",
			mutate:  func(report *injury.Report) { report.Items[0].Description = "ok" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown replacement",
			mutate:  func(report *injury.Report) { report.Items[0].ReplacementProfileID = "hrb-99" },
			wantErr: injury.ErrUnknownIncomingPlayer,
		},
		{
			name:    "unknown injured player",
			mutate:  func(report *injury.Report) { report.Items[0].ProfileID = "hrb-99" },
			wantErr: injury.ErrUnknownInjuredPlayer,
		},
		{
			name:    "unknown rotation",
			mutate:  func(report *injury.Report) { report.RotationID = "rot-ghost" },
			wantErr: ErrNotFound,
		},
		{
			name:     "injured player not on court",
			mutate:   func(report *injury.Report) { report.Items[0].ProfileID = "hrb-08" },
			wantErr:  ErrInvalidInput,
			wantRule: rotation.ErrPlayerNotOnCourt,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newInjuryFixture()
			report := validReport()
			tc.mutate(&report)

			_, err := service.Submit(t.Context(), report)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantRule != nil && !errors.Is(err, tc.wantRule) {
				t.Fatalf("expected rule error %v to stay matchable, got %v", tc.wantRule, err)
			}

			listed, listErr := service.ListByGame(t.Context(), memory.MatchIDDemoFinal)
			if listErr != nil {
				t.Fatalf("list failed: %v", listErr)
			}
			if len(listed) != 0 {
				t.Fatalf("rejected report must not write injuries, got %d", len(listed))
			}
		})
	}
}

func TestInjuryService_Submit_SinkFailureDoesNotRollBack(t *testing.T) {
	sink := &recordingSink{err: errors.New("relay down")}
	service, _ := newInjuryFixture(sink)

	result, err := service.Submit(t.Context(), validReport())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	listed, err := service.ListByGame(t.Context(), memory.MatchIDDemoFinal)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != result.Injuries[0].ID {
		t.Fatalf("expected the injury persisted despite sink failure")
	}
}
