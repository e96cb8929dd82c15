package memory

import (
	"context"
	"sync"

	"github.com/courtside/matchcontrol/internal/domain/sanction"
)

// SanctionRepository keeps the append-only sanction log per match in memory.
type SanctionRepository struct {
	mu    sync.RWMutex
	items map[string][]sanction.Sanction
}

func NewSanctionRepository() *SanctionRepository {
	return &SanctionRepository{items: make(map[string][]sanction.Sanction)}
}

func (r *SanctionRepository) ListByMatch(_ context.Context, matchID string) ([]sanction.Sanction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]sanction.Sanction(nil), r.items[matchID]...), nil
}

func (r *SanctionRepository) Append(_ context.Context, item sanction.Sanction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.MatchID] = append(r.items[item.MatchID], item)
	return nil
}
