package memory

import (
	"context"
	"sync"

	"github.com/courtside/matchcontrol/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Roster
	order []string
}

func NewRosterRepository(rosters []roster.Roster) *RosterRepository {
	r := &RosterRepository{items: make(map[string]roster.Roster, len(rosters))}
	for _, item := range rosters {
		key := rosterKey(item.MatchID, item.TeamID)
		if _, exists := r.items[key]; !exists {
			r.order = append(r.order, key)
		}
		r.items[key] = cloneRoster(item)
	}
	return r
}

func (r *RosterRepository) GetByMatchAndTeam(_ context.Context, matchID, teamID string) (roster.Roster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rosterKey(matchID, teamID)]
	if !ok {
		return roster.Roster{}, false, nil
	}

	return cloneRoster(item), true, nil
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Roster, 0, 2)
	for _, key := range r.order {
		item := r.items[key]
		if item.MatchID == matchID {
			out = append(out, cloneRoster(item))
		}
	}

	return out, nil
}

func (r *RosterRepository) Upsert(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rosterKey(item.MatchID, item.TeamID)
	if _, exists := r.items[key]; !exists {
		r.order = append(r.order, key)
	}
	r.items[key] = cloneRoster(item)
	return nil
}

func rosterKey(matchID, teamID string) string {
	return matchID + "::" + teamID
}

func cloneRoster(item roster.Roster) roster.Roster {
	copied := item
	copied.Entries = append([]roster.Entry(nil), item.Entries...)
	return copied
}
