package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	"github.com/courtside/matchcontrol/internal/domain/sanction"
)

type auditCheck string

const (
	auditCheckRosterInvariants   auditCheck = "roster_invariants"
	auditCheckRotationMembership auditCheck = "rotation_membership"
	auditCheckSanctionTargets    auditCheck = "sanction_targets"

	auditStatusPass    = "pass"
	auditStatusFailed  = "failed"
	auditStatusSkipped = "skipped"

	defaultAuditWorkers = 4
	maxAuditWorkers     = 16
)

// AuditInput selects which matches to audit. SetIDs scope the rotation
// membership check; with none given that check is skipped per team.
type AuditInput struct {
	MatchIDs   []string
	SetIDs     []string
	MaxWorkers int
}

type AuditTaskResult struct {
	MatchID    string `json:"matchId"`
	TeamID     string `json:"teamId"`
	Check      string `json:"check"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type AuditResult struct {
	MatchCount   int               `json:"matchCount"`
	TaskCount    int               `json:"taskCount"`
	WorkerCount  int               `json:"workerCount"`
	PassCount    int               `json:"passCount"`
	FailedCount  int               `json:"failedCount"`
	SkippedCount int               `json:"skippedCount"`
	Tasks        []AuditTaskResult `json:"tasks"`
}

type auditTarget struct {
	matchID string
	call    roster.Roster
}

type auditTask struct {
	target auditTarget
	check  auditCheck
}

// AuditService re-verifies consistency across stored matches: roster
// invariants, in-court players belonging to their roster, and member
// sanctions pointing at rostered players.
type AuditService struct {
	rosterRepo   roster.Repository
	rotationRepo rotation.Repository
	sanctionRepo sanction.Repository
}

func NewAuditService(rosterRepo roster.Repository, rotationRepo rotation.Repository, sanctionRepo sanction.Repository) *AuditService {
	return &AuditService{
		rosterRepo:   rosterRepo,
		rotationRepo: rotationRepo,
		sanctionRepo: sanctionRepo,
	}
}

func (s *AuditService) Run(ctx context.Context, input AuditInput) (AuditResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Run")
	defer span.End()

	if len(input.MatchIDs) == 0 {
		return AuditResult{}, fmt.Errorf("%w: at least one match id is required", ErrInvalidInput)
	}

	targets := make([]auditTarget, 0, len(input.MatchIDs)*2)
	seen := make(map[string]struct{}, len(input.MatchIDs))
	for _, matchID := range input.MatchIDs {
		if _, dup := seen[matchID]; dup {
			continue
		}
		seen[matchID] = struct{}{}

		calls, err := s.rosterRepo.ListByMatch(ctx, matchID)
		if err != nil {
			return AuditResult{}, fmt.Errorf("list rosters for audit: %w", err)
		}
		for _, call := range calls {
			targets = append(targets, auditTarget{matchID: matchID, call: call})
		}
	}

	checks := []auditCheck{auditCheckRosterInvariants, auditCheckRotationMembership, auditCheckSanctionTargets}
	tasks := make([]auditTask, 0, len(targets)*len(checks))
	for _, target := range targets {
		for _, check := range checks {
			tasks = append(tasks, auditTask{target: target, check: check})
		}
	}

	workerCount := normalizeAuditWorkerCount(input.MaxWorkers, len(tasks))
	result := AuditResult{
		MatchCount:  len(seen),
		TaskCount:   len(tasks),
		WorkerCount: workerCount,
		Tasks:       make([]AuditTaskResult, 0, len(tasks)),
	}
	if len(tasks) == 0 {
		return result, nil
	}

	results := make(chan AuditTaskResult, len(tasks))

	var passCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return AuditResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := AuditTaskResult{
				MatchID: task.target.matchID,
				TeamID:  task.target.call.TeamID,
				Check:   string(task.check),
			}

			status, message := s.runAuditTask(ctx, task, input.SetIDs)
			row.Status = status
			row.Message = message
			row.DurationMs = time.Since(start).Milliseconds()

			switch status {
			case auditStatusPass:
				passCount.Add(1)
			case auditStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return AuditResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		a, b := result.Tasks[i], result.Tasks[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.TeamID != b.TeamID {
			return a.TeamID < b.TeamID
		}
		return a.Check < b.Check
	})

	result.PassCount = int(passCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	return result, nil
}

func (s *AuditService) runAuditTask(ctx context.Context, task auditTask, setIDs []string) (string, string) {
	switch task.check {
	case auditCheckRosterInvariants:
		if err := roster.Validate(task.target.call); err != nil {
			return auditStatusFailed, err.Error()
		}
		return auditStatusPass, ""

	case auditCheckRotationMembership:
		if len(setIDs) == 0 {
			return auditStatusSkipped, "no set ids requested"
		}
		for _, setID := range setIDs {
			current, exists, err := s.rotationRepo.GetCurrent(ctx, task.target.call.ID, setID)
			if err != nil {
				return auditStatusFailed, fmt.Sprintf("get current rotation set=%s: %v", setID, err)
			}
			if !exists {
				continue
			}
			for _, slot := range current.Slots {
				if _, ok := roster.FindByProfileID(task.target.call, slot.InCourtProfileID); !ok {
					return auditStatusFailed, fmt.Sprintf("set=%s rotation=%d: in-court player %s is not on the roster", setID, current.Number, slot.InCourtProfileID)
				}
			}
		}
		return auditStatusPass, ""

	case auditCheckSanctionTargets:
		history, err := s.sanctionRepo.ListByMatch(ctx, task.target.matchID)
		if err != nil {
			return auditStatusFailed, fmt.Sprintf("list sanctions: %v", err)
		}
		for _, item := range history {
			if item.Kind != sanction.KindMember || item.TeamID != task.target.call.TeamID {
				continue
			}
			if item.PlayerProfileID == "" {
				// Coach targets are not roster entries.
				continue
			}
			if _, ok := roster.FindByProfileID(task.target.call, item.PlayerProfileID); !ok {
				return auditStatusFailed, fmt.Sprintf("sanction %s targets player %s who is not on the roster", item.ID, item.PlayerProfileID)
			}
		}
		return auditStatusPass, ""
	}

	return auditStatusSkipped, "unknown check"
}

func normalizeAuditWorkerCount(value int, taskCount int) int {
	if value <= 0 {
		value = defaultAuditWorkers
	}
	if value > maxAuditWorkers {
		value = maxAuditWorkers
	}
	if taskCount > 0 && value > taskCount {
		value = taskCount
	}
	return value
}
