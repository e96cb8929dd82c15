package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	idgen "github.com/courtside/matchcontrol/internal/platform/id"
)

// SaveRosterInput is the incoming payload for create/update of a team's call.
type SaveRosterInput struct {
	MatchID string
	TeamID  string
	Entries []roster.Entry
}

type RosterService struct {
	rosterRepo roster.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewRosterService(rosterRepo roster.Repository, idGen idgen.Generator) *RosterService {
	return &RosterService{
		rosterRepo: rosterRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *RosterService) GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (roster.Roster, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetByMatchAndTeam")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	teamID = strings.TrimSpace(teamID)
	if matchID == "" || teamID == "" {
		return roster.Roster{}, false, fmt.Errorf("%w: match_id and team_id are required", ErrInvalidInput)
	}

	item, exists, err := s.rosterRepo.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("get roster by match and team: %w", err)
	}

	return item, exists, nil
}

// Save validates and stores a call. An existing locked call rejects the save;
// a fresh call gets a generated id.
func (s *RosterService) Save(ctx context.Context, input SaveRosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Save")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.MatchID == "" {
		return roster.Roster{}, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return roster.Roster{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	existing, exists, err := s.rosterRepo.GetByMatchAndTeam(ctx, input.MatchID, input.TeamID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster before save: %w", err)
	}
	if exists && existing.Locked {
		return roster.Roster{}, fmt.Errorf("%w: %w", ErrInvalidInput, roster.ErrRosterLocked)
	}

	item := roster.Roster{
		MatchID:   input.MatchID,
		TeamID:    input.TeamID,
		Entries:   append([]roster.Entry(nil), input.Entries...),
		UpdatedAt: s.now().UTC(),
	}
	if exists {
		item.ID = existing.ID
	} else {
		id, idErr := s.idGen.NewID()
		if idErr != nil {
			return roster.Roster{}, fmt.Errorf("generate roster id: %w", idErr)
		}
		item.ID = id
	}

	if err := roster.Validate(item); err != nil {
		return roster.Roster{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.rosterRepo.Upsert(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("save roster: %w", err)
	}

	return item, nil
}

// Lock freezes a call; after this point entries are immutable and only
// lookups remain.
func (s *RosterService) Lock(ctx context.Context, matchID, teamID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Lock")
	defer span.End()

	item, exists, err := s.GetByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return roster.Roster{}, err
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: roster match=%s team=%s", ErrNotFound, matchID, teamID)
	}
	if item.Locked {
		return item, nil
	}

	item.Locked = true
	item.UpdatedAt = s.now().UTC()
	if err := s.rosterRepo.Upsert(ctx, item); err != nil {
		return roster.Roster{}, fmt.Errorf("lock roster: %w", err)
	}

	return item, nil
}
