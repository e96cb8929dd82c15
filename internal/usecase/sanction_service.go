package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/courtside/matchcontrol/internal/domain/sanction"
	idgen "github.com/courtside/matchcontrol/internal/platform/id"
)

// RecordSanctionInput is the incoming payload for issuing a sanction.
type RecordSanctionInput struct {
	MatchID         string
	Kind            sanction.Kind
	Severity        sanction.Severity
	SetID           string
	TeamID          string
	PlayerProfileID string
	CoachProfileID  string
}

// SanctionSink receives accepted sanctions for delivery outside the service,
// e.g. the score relay.
type SanctionSink interface {
	PublishSanction(ctx context.Context, item sanction.Sanction) error
}

type SanctionService struct {
	sanctionRepo sanction.Repository
	idGen        idgen.Generator
	sinks        []SanctionSink
	logger       *slog.Logger
	now          func() time.Time
}

func NewSanctionService(sanctionRepo sanction.Repository, idGen idgen.Generator, logger *slog.Logger, sinks ...SanctionSink) *SanctionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SanctionService{
		sanctionRepo: sanctionRepo,
		idGen:        idGen,
		sinks:        sinks,
		logger:       logger,
		now:          time.Now,
	}
}

// Record validates and appends a sanction to the match log. The severity must
// still be available on the relevant escalation ladder; recording a rung the
// team or member already passed is rejected, never silently corrected.
func (s *SanctionService) Record(ctx context.Context, input RecordSanctionInput) (sanction.Sanction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SanctionService.Record")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.MatchID == "" {
		return sanction.Sanction{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	req, err := sanction.ToStoreRequest(
		input.Kind,
		input.Severity,
		strings.TrimSpace(input.SetID),
		strings.TrimSpace(input.TeamID),
		strings.TrimSpace(input.PlayerProfileID),
		strings.TrimSpace(input.CoachProfileID),
	)
	if err != nil {
		return sanction.Sanction{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	history, err := s.sanctionRepo.ListByMatch(ctx, input.MatchID)
	if err != nil {
		return sanction.Sanction{}, fmt.Errorf("list sanctions before record: %w", err)
	}

	available, err := s.availableFor(history, req)
	if err != nil {
		return sanction.Sanction{}, err
	}
	if !severityIn(available, req.Severity) {
		return sanction.Sanction{}, fmt.Errorf("%w: severity %s is no longer available", ErrInvalidInput, req.Severity)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return sanction.Sanction{}, fmt.Errorf("generate sanction id: %w", err)
	}

	item := sanction.Sanction{
		ID:              id,
		MatchID:         input.MatchID,
		Kind:            req.Kind,
		Severity:        req.Severity,
		SetID:           req.SetID,
		TeamID:          req.TeamID,
		PlayerProfileID: req.PlayerProfileID,
		CoachProfileID:  req.CoachProfileID,
		IssuedAt:        s.now().UTC(),
	}

	if err := s.sanctionRepo.Append(ctx, item); err != nil {
		return sanction.Sanction{}, fmt.Errorf("append sanction: %w", err)
	}

	s.broadcast(ctx, item)

	s.logger.InfoContext(ctx, "sanction recorded",
		"match_id", item.MatchID,
		"team_id", item.TeamID,
		"set_id", item.SetID,
		"kind", item.Kind,
		"severity", item.Severity,
	)

	return item, nil
}

func (s *SanctionService) broadcast(ctx context.Context, item sanction.Sanction) {
	if len(s.sinks) == 0 {
		return
	}

	var wg conc.WaitGroup
	for _, sink := range s.sinks {
		wg.Go(func() {
			if err := sink.PublishSanction(ctx, item); err != nil {
				s.logger.WarnContext(ctx, "sanction broadcast failed", "sanction_id", item.ID, "error", err)
			}
		})
	}
	wg.Wait()
}

func (s *SanctionService) availableFor(history []sanction.Sanction, req sanction.StoreRequest) ([]sanction.Severity, error) {
	if req.Kind == sanction.KindTeam {
		return sanction.AvailableTeamSeverities(history, req.SetID, req.TeamID), nil
	}

	role := sanction.RolePlayer
	profileID := req.PlayerProfileID
	if profileID == "" {
		role = sanction.RoleCoach
		profileID = req.CoachProfileID
	}

	available := sanction.AvailableMemberSeverities(history, req.SetID, req.TeamID, profileID, role)
	return available, nil
}

// History returns the match log merged with any optimistic local entries the
// caller is still holding, first occurrence per id winning.
func (s *SanctionService) History(ctx context.Context, matchID string, optimistic []sanction.Sanction) ([]sanction.Sanction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SanctionService.History")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	stored, err := s.sanctionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list sanctions: %w", err)
	}

	return sanction.MergeWithoutDuplicates(stored, optimistic), nil
}

// AvailableForTeam reports which team severities remain assignable. Missing
// scope degrades to the full ladder by design; it is not an error.
func (s *SanctionService) AvailableForTeam(ctx context.Context, matchID, setID, teamID string) ([]sanction.Severity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SanctionService.AvailableForTeam")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	history, err := s.sanctionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list sanctions: %w", err)
	}

	return sanction.AvailableTeamSeverities(history, strings.TrimSpace(setID), strings.TrimSpace(teamID)), nil
}

// AvailableForMember reports which member severities remain assignable.
// Incomplete scope is an ErrMissingScope: the ladder returns an empty set in
// that case and callers must not present it as "nothing available".
func (s *SanctionService) AvailableForMember(ctx context.Context, matchID, setID, teamID, profileID string, role sanction.MemberRole) ([]sanction.Severity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SanctionService.AvailableForMember")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	teamID = strings.TrimSpace(teamID)
	profileID = strings.TrimSpace(profileID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if teamID == "" || profileID == "" || role == "" {
		return nil, fmt.Errorf("%w: team_id, profile_id and role are required", ErrMissingScope)
	}

	history, err := s.sanctionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list sanctions: %w", err)
	}

	return sanction.AvailableMemberSeverities(history, strings.TrimSpace(setID), teamID, profileID, role), nil
}

// MostRecentForMember returns the member's last sanction within the scope.
func (s *SanctionService) MostRecentForMember(ctx context.Context, matchID, setID, teamID, profileID string, role sanction.MemberRole, scope sanction.Scope) (sanction.Sanction, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SanctionService.MostRecentForMember")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return sanction.Sanction{}, false, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if scope == sanction.ScopeSet && strings.TrimSpace(setID) == "" {
		return sanction.Sanction{}, false, fmt.Errorf("%w: set_id is required for set scope", ErrMissingScope)
	}

	history, err := s.sanctionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return sanction.Sanction{}, false, fmt.Errorf("list sanctions: %w", err)
	}

	item, ok := sanction.MostRecentMemberSanction(history, strings.TrimSpace(setID), strings.TrimSpace(teamID), strings.TrimSpace(profileID), role, scope)
	return item, ok, nil
}

func severityIn(available []sanction.Severity, severity sanction.Severity) bool {
	for _, s := range available {
		if s == severity {
			return true
		}
	}
	return false
}
