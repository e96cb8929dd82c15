package memory

import (
	"context"
	"sync"

	"github.com/courtside/matchcontrol/internal/domain/injury"
)

// InjuryRepository keeps the append-only injury log per game in memory.
type InjuryRepository struct {
	mu    sync.RWMutex
	items map[string][]injury.Injury
}

func NewInjuryRepository() *InjuryRepository {
	return &InjuryRepository{items: make(map[string][]injury.Injury)}
}

func (r *InjuryRepository) ListByGame(_ context.Context, gameID string) ([]injury.Injury, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]injury.Injury(nil), r.items[gameID]...), nil
}

func (r *InjuryRepository) Append(_ context.Context, items ...injury.Injury) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.GameID] = append(r.items[item.GameID], item)
	}

	return nil
}
