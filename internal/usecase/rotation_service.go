package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	idgen "github.com/courtside/matchcontrol/internal/platform/id"
)

// SubstitutionInput asks for outgoing to leave the court in favor of incoming
// within the current rotation of (call, set).
type SubstitutionInput struct {
	MatchID    string
	TeamID     string
	CallID     string
	SetID      string
	OutgoingID string
	IncomingID string
}

type RotationService struct {
	rosterRepo   roster.Repository
	rotationRepo rotation.Repository
	idGen        idgen.Generator
	logger       *slog.Logger
	now          func() time.Time
}

func NewRotationService(
	rosterRepo roster.Repository,
	rotationRepo rotation.Repository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RotationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RotationService{
		rosterRepo:   rosterRepo,
		rotationRepo: rotationRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *RotationService) Current(ctx context.Context, callID, setID string) (rotation.Rotation, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.Current")
	defer span.End()

	callID = strings.TrimSpace(callID)
	setID = strings.TrimSpace(setID)
	if callID == "" || setID == "" {
		return rotation.Rotation{}, false, fmt.Errorf("%w: call_id and set_id are required", ErrInvalidInput)
	}

	item, exists, err := s.rotationRepo.GetCurrent(ctx, callID, setID)
	if err != nil {
		return rotation.Rotation{}, false, fmt.Errorf("get current rotation: %w", err)
	}

	return item, exists, nil
}

// Lock marks the current rotation of (call, set) as played. Further changes
// will happen on a successor arrangement.
func (s *RotationService) Lock(ctx context.Context, callID, setID string) (rotation.Rotation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.Lock")
	defer span.End()

	current, exists, err := s.Current(ctx, callID, setID)
	if err != nil {
		return rotation.Rotation{}, err
	}
	if !exists {
		return rotation.Rotation{}, fmt.Errorf("%w: rotation call=%s set=%s", ErrNotFound, callID, setID)
	}
	if current.Locked {
		return current, nil
	}

	current.Locked = true
	if err := s.rotationRepo.Upsert(ctx, current); err != nil {
		return rotation.Rotation{}, fmt.Errorf("lock rotation: %w", err)
	}

	return current, nil
}

// Substitute applies a lineup change. A locked current rotation is never
// mutated: the change lands on a fresh successor at Number+1.
func (s *RotationService) Substitute(ctx context.Context, input SubstitutionInput) (rotation.Rotation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.Substitute")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.CallID = strings.TrimSpace(input.CallID)
	input.SetID = strings.TrimSpace(input.SetID)
	input.OutgoingID = strings.TrimSpace(input.OutgoingID)
	input.IncomingID = strings.TrimSpace(input.IncomingID)

	if input.MatchID == "" || input.TeamID == "" {
		return rotation.Rotation{}, fmt.Errorf("%w: match_id and team_id are required", ErrInvalidInput)
	}
	if input.CallID == "" || input.SetID == "" {
		return rotation.Rotation{}, fmt.Errorf("%w: call_id and set_id are required", ErrInvalidInput)
	}
	if input.OutgoingID == "" || input.IncomingID == "" {
		return rotation.Rotation{}, fmt.Errorf("%w: outgoing and incoming profile ids are required", ErrInvalidInput)
	}

	call, exists, err := s.rosterRepo.GetByMatchAndTeam(ctx, input.MatchID, input.TeamID)
	if err != nil {
		return rotation.Rotation{}, fmt.Errorf("get roster for substitution: %w", err)
	}
	if !exists {
		return rotation.Rotation{}, fmt.Errorf("%w: roster match=%s team=%s", ErrNotFound, input.MatchID, input.TeamID)
	}

	incoming, ok := roster.FindByProfileID(call, input.IncomingID)
	if !ok {
		return rotation.Rotation{}, fmt.Errorf("%w: incoming player %s is not on the roster", ErrInvalidInput, input.IncomingID)
	}

	current, exists, err := s.rotationRepo.GetCurrent(ctx, input.CallID, input.SetID)
	if err != nil {
		return rotation.Rotation{}, fmt.Errorf("get current rotation: %w", err)
	}
	if !exists {
		return rotation.Rotation{}, fmt.Errorf("%w: rotation call=%s set=%s", ErrNotFound, input.CallID, input.SetID)
	}

	target := current
	if current.Locked {
		id, idErr := s.idGen.NewID()
		if idErr != nil {
			return rotation.Rotation{}, fmt.Errorf("generate rotation id: %w", idErr)
		}
		target = rotation.Successor(current, id)
	}

	slot, err := rotation.ProposeChange(target, input.OutgoingID, input.IncomingID, incoming.IsLibero)
	if err != nil {
		return rotation.Rotation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	next, err := rotation.ApplyChange(target, slot)
	if err != nil {
		return rotation.Rotation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	next.CreatedAt = s.now().UTC()

	if err := s.rotationRepo.Upsert(ctx, next); err != nil {
		return rotation.Rotation{}, fmt.Errorf("save rotation: %w", err)
	}

	s.logger.InfoContext(ctx, "substitution applied",
		"call_id", input.CallID,
		"set_id", input.SetID,
		"rotation_number", next.Number,
		"out", input.OutgoingID,
		"in", input.IncomingID,
	)

	return next, nil
}

// CurrentIndex answers "what rotation number is each player currently in" for
// one (call, set), folded once from the ordered history.
func (s *RotationService) CurrentIndex(ctx context.Context, callID, setID string) (map[string]map[string]int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RotationService.CurrentIndex")
	defer span.End()

	callID = strings.TrimSpace(callID)
	setID = strings.TrimSpace(setID)
	if callID == "" || setID == "" {
		return nil, fmt.Errorf("%w: call_id and set_id are required", ErrInvalidInput)
	}

	history, err := s.rotationRepo.ListByCallAndSet(ctx, callID, setID)
	if err != nil {
		return nil, fmt.Errorf("list rotations: %w", err)
	}

	return rotation.CurrentIndex(history), nil
}
