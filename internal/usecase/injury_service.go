package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/courtside/matchcontrol/internal/domain/injury"
	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	idgen "github.com/courtside/matchcontrol/internal/platform/id"
)

// InjurySink receives confirmed injuries after the forced substitution has
// been persisted. Delivery is best effort; sink failures never roll back the
// lineup change.
type InjurySink interface {
	PublishInjury(ctx context.Context, item injury.Injury) error
}

// InjuryReportResult is what a successfully processed report produced: the
// stored injuries and the rotation the forced substitutions landed on.
type InjuryReportResult struct {
	Injuries []injury.Injury
	Rotation rotation.Rotation
}

type InjuryService struct {
	rosterRepo   roster.Repository
	rotationRepo rotation.Repository
	injuryRepo   injury.Repository
	idGen        idgen.Generator
	sinks        []InjurySink
	logger       *slog.Logger
	now          func() time.Time
}

func NewInjuryService(
	rosterRepo roster.Repository,
	rotationRepo rotation.Repository,
	injuryRepo injury.Repository,
	idGen idgen.Generator,
	sinks []InjurySink,
	logger *slog.Logger,
) *InjuryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &InjuryService{
		rosterRepo:   rosterRepo,
		rotationRepo: rotationRepo,
		injuryRepo:   injuryRepo,
		idGen:        idGen,
		sinks:        sinks,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit processes an injury report: every line item is resolved against the
// roster, the forced substitution is checked and applied on the rotation
// ledger, then the injuries are logged and broadcast. The report is handled
// as a unit; one bad item rejects the whole thing before anything is written.
func (s *InjuryService) Submit(ctx context.Context, report injury.Report) (InjuryReportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InjuryService.Submit")
	defer span.End()

	report.GameID = strings.TrimSpace(report.GameID)
	report.SetID = strings.TrimSpace(report.SetID)
	report.RotationID = strings.TrimSpace(report.RotationID)
	report.TeamID = strings.TrimSpace(report.TeamID)

	if err := injury.ValidateReport(report); err != nil {
		return InjuryReportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	call, exists, err := s.rosterRepo.GetByMatchAndTeam(ctx, report.GameID, report.TeamID)
	if err != nil {
		return InjuryReportResult{}, fmt.Errorf("get roster for injury report: %w", err)
	}
	if !exists {
		return InjuryReportResult{}, fmt.Errorf("%w: roster match=%s team=%s", ErrNotFound, report.GameID, report.TeamID)
	}

	current, exists, err := s.rotationRepo.GetByID(ctx, report.RotationID)
	if err != nil {
		return InjuryReportResult{}, fmt.Errorf("get rotation for injury report: %w", err)
	}
	if !exists {
		return InjuryReportResult{}, fmt.Errorf("%w: rotation %s", ErrNotFound, report.RotationID)
	}

	target := current
	if current.Locked {
		id, idErr := s.idGen.NewID()
		if idErr != nil {
			return InjuryReportResult{}, fmt.Errorf("generate rotation id: %w", idErr)
		}
		target = rotation.Successor(current, id)
	}

	reportedAt := s.now().UTC()
	injuries := make([]injury.Injury, 0, len(report.Items))
	for _, reportItem := range report.Items {
		id, idErr := s.idGen.NewID()
		if idErr != nil {
			return InjuryReportResult{}, fmt.Errorf("generate injury id: %w", idErr)
		}

		item := injury.Injury{
			ID:                   id,
			GameID:               report.GameID,
			SetID:                report.SetID,
			RotationID:           target.ID,
			TeamID:               report.TeamID,
			PlayerRotationID:     reportItem.PlayerRotationID,
			ProfileID:            reportItem.ProfileID,
			ReplacementProfileID: reportItem.ReplacementProfileID,
			Description:          reportItem.Description,
			ReportedAt:           reportedAt,
		}

		sub, resolveErr := injury.Resolve(item, call)
		if resolveErr != nil {
			return InjuryReportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, resolveErr)
		}
		item.IsLibero = sub.In.IsLibero

		slot, proposeErr := rotation.ProposeChange(target, sub.Out.ProfileID, sub.In.ProfileID, sub.In.IsLibero)
		if proposeErr != nil {
			return InjuryReportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, proposeErr)
		}
		target, err = rotation.ApplyChange(target, slot)
		if err != nil {
			return InjuryReportResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		injuries = append(injuries, item)
	}
	target.CreatedAt = reportedAt

	if err := s.rotationRepo.Upsert(ctx, target); err != nil {
		return InjuryReportResult{}, fmt.Errorf("save rotation after injuries: %w", err)
	}
	if err := s.injuryRepo.Append(ctx, injuries...); err != nil {
		return InjuryReportResult{}, fmt.Errorf("append injuries: %w", err)
	}

	s.broadcast(ctx, injuries)

	s.logger.InfoContext(ctx, "injury report accepted",
		"game_id", report.GameID,
		"set_id", report.SetID,
		"team_id", report.TeamID,
		"rotation_id", target.ID,
		"items", len(injuries),
	)

	return InjuryReportResult{Injuries: injuries, Rotation: target}, nil
}

func (s *InjuryService) ListByGame(ctx context.Context, gameID string) ([]injury.Injury, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InjuryService.ListByGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}

	items, err := s.injuryRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list injuries: %w", err)
	}

	return items, nil
}

func (s *InjuryService) broadcast(ctx context.Context, injuries []injury.Injury) {
	if len(s.sinks) == 0 {
		return
	}

	var wg conc.WaitGroup
	for _, sink := range s.sinks {
		for _, item := range injuries {
			wg.Go(func() {
				if err := sink.PublishInjury(ctx, item); err != nil {
					s.logger.WarnContext(ctx, "injury broadcast failed", "injury_id", item.ID, "error", err)
				}
			})
		}
	}
	wg.Wait()
}
