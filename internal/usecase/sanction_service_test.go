package usecase

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/sanction"
	"github.com/courtside/matchcontrol/internal/infrastructure/repository/memory"
)

func newSanctionFixture() *SanctionService {
	return NewSanctionService(memory.NewSanctionRepository(), &seqIDGenerator{prefix: "snc"}, discardLogger())
}

func TestSanctionService_Record_TeamLadderShrinks(t *testing.T) {
	service := newSanctionFixture()
	issuedAt := time.Date(2026, 3, 14, 19, 10, 0, 0, time.UTC)
	service.now = func() time.Time { return issuedAt }

	warning := RecordSanctionInput{
		MatchID:  memory.MatchIDDemoFinal,
		Kind:     sanction.KindTeam,
		Severity: sanction.SeverityWarning,
		SetID:    memory.SetIDFirst,
		TeamID:   memory.TeamIDHarbor,
	}

	recorded, err := service.Record(t.Context(), warning)
	if err != nil {
		t.Fatalf("record warning failed: %v", err)
	}
	if recorded.ID != "snc-001" || !recorded.IssuedAt.Equal(issuedAt) {
		t.Fatalf("unexpected stored sanction: %+v", recorded)
	}

	available, err := service.AvailableForTeam(t.Context(), memory.MatchIDDemoFinal, memory.SetIDFirst, memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("available for team failed: %v", err)
	}
	if !reflect.DeepEqual(available, []sanction.Severity{sanction.SeverityPointAgainst}) {
		t.Fatalf("expected only POINT_AGAINST after a team warning, got %v", available)
	}

	// Second warning in the same set is off the ladder.
	if _, err := service.Record(t.Context(), warning); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected second warning rejected, got %v", err)
	}

	// A different set carries no warning yet.
	other, err := service.AvailableForTeam(t.Context(), memory.MatchIDDemoFinal, "set-2", memory.TeamIDHarbor)
	if err != nil {
		t.Fatalf("available for other set failed: %v", err)
	}
	if !reflect.DeepEqual(other, sanction.TeamLadder()) {
		t.Fatalf("expected full team ladder in set-2, got %v", other)
	}
}

func TestSanctionService_Record_MemberFloorAdvances(t *testing.T) {
	service := newSanctionFixture()

	_, err := service.Record(t.Context(), RecordSanctionInput{
		MatchID:         memory.MatchIDDemoFinal,
		Kind:            sanction.KindMember,
		Severity:        sanction.SeveritySetExpulsion,
		SetID:           memory.SetIDFirst,
		TeamID:          memory.TeamIDHarbor,
		PlayerProfileID: "hrb-04",
	})
	if err != nil {
		t.Fatalf("record set expulsion failed: %v", err)
	}

	available, err := service.AvailableForMember(t.Context(), memory.MatchIDDemoFinal, memory.SetIDFirst, memory.TeamIDHarbor, "hrb-04", sanction.RolePlayer)
	if err != nil {
		t.Fatalf("available for member failed: %v", err)
	}
	if !reflect.DeepEqual(available, []sanction.Severity{sanction.SeverityGameExpulsion}) {
		t.Fatalf("expected only GAME_EXPULSION above a set expulsion, got %v", available)
	}

	// The expulsion was set-scoped; the next set starts clean.
	nextSet, err := service.AvailableForMember(t.Context(), memory.MatchIDDemoFinal, "set-2", memory.TeamIDHarbor, "hrb-04", sanction.RolePlayer)
	if err != nil {
		t.Fatalf("available in next set failed: %v", err)
	}
	if !reflect.DeepEqual(nextSet, sanction.MemberLadder()) {
		t.Fatalf("expected full member ladder in set-2, got %v", nextSet)
	}

	// Recording a rung at the floor is rejected, never silently corrected.
	_, err = service.Record(t.Context(), RecordSanctionInput{
		MatchID:         memory.MatchIDDemoFinal,
		Kind:            sanction.KindMember,
		Severity:        sanction.SeverityWarning,
		SetID:           memory.SetIDFirst,
		TeamID:          memory.TeamIDHarbor,
		PlayerProfileID: "hrb-04",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected warning below the floor rejected, got %v", err)
	}
}

func TestSanctionService_Record_MissingFieldsRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(input *RecordSanctionInput)
	}{
		{name: "missing kind", mutate: func(input *RecordSanctionInput) { input.Kind = "" }},
		{name: "missing severity", mutate: func(input *RecordSanctionInput) { input.Severity = "" }},
		{name: "missing set id", mutate: func(input *RecordSanctionInput) { input.SetID = "" }},
		{name: "missing team id", mutate: func(input *RecordSanctionInput) { input.TeamID = "" }},
		{name: "missing member target", mutate: func(input *RecordSanctionInput) { input.PlayerProfileID = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service := newSanctionFixture()
			input := RecordSanctionInput{
				MatchID:         memory.MatchIDDemoFinal,
				Kind:            sanction.KindMember,
				Severity:        sanction.SeverityWarning,
				SetID:           memory.SetIDFirst,
				TeamID:          memory.TeamIDHarbor,
				PlayerProfileID: "hrb-04",
			}
			tc.mutate(&input)

			if _, err := service.Record(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSanctionService_AvailableForMember_MissingScope(t *testing.T) {
	service := newSanctionFixture()

	_, err := service.AvailableForMember(t.Context(), memory.MatchIDDemoFinal, memory.SetIDFirst, "", "hrb-04", sanction.RolePlayer)
	if !errors.Is(err, ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope without team id, got %v", err)
	}

	_, err = service.AvailableForMember(t.Context(), memory.MatchIDDemoFinal, memory.SetIDFirst, memory.TeamIDHarbor, "hrb-04", "")
	if !errors.Is(err, ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope without role, got %v", err)
	}

	// Team queries degrade instead: missing scope yields the full ladder.
	available, err := service.AvailableForTeam(t.Context(), memory.MatchIDDemoFinal, "", "")
	if err != nil {
		t.Fatalf("available for team failed: %v", err)
	}
	if !reflect.DeepEqual(available, sanction.TeamLadder()) {
		t.Fatalf("expected full team ladder on missing scope, got %v", available)
	}
}

func TestSanctionService_History_MergesOptimistic(t *testing.T) {
	service := newSanctionFixture()

	stored, err := service.Record(t.Context(), RecordSanctionInput{
		MatchID:  memory.MatchIDDemoFinal,
		Kind:     sanction.KindTeam,
		Severity: sanction.SeverityWarning,
		SetID:    memory.SetIDFirst,
		TeamID:   memory.TeamIDGranite,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	optimistic := []sanction.Sanction{
		stored, // duplicate of the stored entry
		{
			ID:       "local-1",
			MatchID:  memory.MatchIDDemoFinal,
			Kind:     sanction.KindTeam,
			Severity: sanction.SeverityPointAgainst,
			SetID:    memory.SetIDFirst,
			TeamID:   memory.TeamIDGranite,
		},
	}

	merged, err := service.History(t.Context(), memory.MatchIDDemoFinal, optimistic)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged sanctions, got %d", len(merged))
	}
	if merged[0].ID != stored.ID || merged[1].ID != "local-1" {
		t.Fatalf("unexpected merge order: %s, %s", merged[0].ID, merged[1].ID)
	}
}

func TestSanctionService_MostRecentForMember(t *testing.T) {
	service := newSanctionFixture()

	for _, severity := range []sanction.Severity{sanction.SeverityWarning, sanction.SeverityPointAgainst} {
		if _, err := service.Record(t.Context(), RecordSanctionInput{
			MatchID:        memory.MatchIDDemoFinal,
			Kind:           sanction.KindMember,
			Severity:       severity,
			SetID:          memory.SetIDFirst,
			TeamID:         memory.TeamIDHarbor,
			CoachProfileID: "coach-01",
		}); err != nil {
			t.Fatalf("record %s failed: %v", severity, err)
		}
	}

	latest, ok, err := service.MostRecentForMember(t.Context(), memory.MatchIDDemoFinal, memory.SetIDFirst, memory.TeamIDHarbor, "coach-01", sanction.RoleCoach, sanction.ScopeSet)
	if err != nil || !ok {
		t.Fatalf("most recent failed: ok=%v err=%v", ok, err)
	}
	if latest.Severity != sanction.SeverityPointAgainst {
		t.Fatalf("expected latest POINT_AGAINST, got %s", latest.Severity)
	}

	_, _, err = service.MostRecentForMember(t.Context(), memory.MatchIDDemoFinal, "", memory.TeamIDHarbor, "coach-01", sanction.RoleCoach, sanction.ScopeSet)
	if !errors.Is(err, ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope for set scope without set id, got %v", err)
	}

	_, ok, err = service.MostRecentForMember(t.Context(), memory.MatchIDDemoFinal, "", memory.TeamIDHarbor, "coach-01", sanction.RoleCoach, sanction.ScopeGame)
	if err != nil || !ok {
		t.Fatalf("expected game-scope lookup to ignore set id: ok=%v err=%v", ok, err)
	}
}

type recordingSanctionSink struct {
	mu    sync.Mutex
	items []sanction.Sanction
	err   error
}

func (s *recordingSanctionSink) PublishSanction(_ context.Context, item sanction.Sanction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

func TestSanctionService_Record_NotifiesSinks(t *testing.T) {
	sink := &recordingSanctionSink{}
	service := NewSanctionService(memory.NewSanctionRepository(), &seqIDGenerator{prefix: "snc"}, discardLogger(), sink)

	recorded, err := service.Record(t.Context(), RecordSanctionInput{
		MatchID:  memory.MatchIDDemoFinal,
		Kind:     sanction.KindTeam,
		Severity: sanction.SeverityWarning,
		SetID:    memory.SetIDFirst,
		TeamID:   memory.TeamIDHarbor,
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.items) != 1 || sink.items[0].ID != recorded.ID {
		t.Fatalf("expected sink to receive the recorded sanction, got %+v", sink.items)
	}
}

func TestSanctionService_Record_SinkFailureDoesNotFailRecord(t *testing.T) {
	sink := &recordingSanctionSink{err: errors.New("relay down")}
	service := NewSanctionService(memory.NewSanctionRepository(), &seqIDGenerator{prefix: "snc"}, discardLogger(), sink)

	recorded, err := service.Record(t.Context(), RecordSanctionInput{
		MatchID:  memory.MatchIDDemoFinal,
		Kind:     sanction.KindTeam,
		Severity: sanction.SeverityWarning,
		SetID:    memory.SetIDFirst,
		TeamID:   memory.TeamIDHarbor,
	})
	if err != nil {
		t.Fatalf("record failed despite sink error: %v", err)
	}

	history, err := service.History(t.Context(), memory.MatchIDDemoFinal, nil)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != recorded.ID {
		t.Fatalf("expected the sanction to be stored, got %+v", history)
	}
}
