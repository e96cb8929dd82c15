// Package cache wraps repositories with a read-through TTL cache. Only the
// read-heavy roster and rotation lookups are cached; the sanction and injury
// logs stay uncached because recording reads its own history first.
package cache

import (
	"context"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
	basecache "github.com/courtside/matchcontrol/internal/platform/cache"
)

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (roster.Roster, bool, error) {
	key := "roster:match:" + matchID + ":team:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByMatchAndTeam(ctx, matchID, teamID)
		if err != nil {
			return nil, err
		}
		return cachedRoster{value: item, exists: exists}, nil
	})
	if err != nil {
		return roster.Roster{}, false, err
	}

	cached, _ := v.(cachedRoster)
	return cached.value, cached.exists, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Roster, error) {
	key := "roster:list:" + matchID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return append([]roster.Roster(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]roster.Roster)
	return append([]roster.Roster(nil), items...), nil
}

func (r *RosterRepository) Upsert(ctx context.Context, item roster.Roster) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}

	r.cache.Delete(ctx, "roster:match:"+item.MatchID+":team:"+item.TeamID)
	r.cache.Delete(ctx, "roster:list:"+item.MatchID)
	return nil
}

type cachedRoster struct {
	value  roster.Roster
	exists bool
}

type RotationRepository struct {
	next  rotation.Repository
	cache *basecache.Store
}

func NewRotationRepository(next rotation.Repository, cache *basecache.Store) *RotationRepository {
	return &RotationRepository{next: next, cache: cache}
}

func (r *RotationRepository) ListByCallAndSet(ctx context.Context, callID, setID string) ([]rotation.Rotation, error) {
	key := "rotation:list:" + callID + ":" + setID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByCallAndSet(ctx, callID, setID)
		if err != nil {
			return nil, err
		}
		return append([]rotation.Rotation(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]rotation.Rotation)
	return append([]rotation.Rotation(nil), items...), nil
}

func (r *RotationRepository) GetCurrent(ctx context.Context, callID, setID string) (rotation.Rotation, bool, error) {
	key := "rotation:current:" + callID + ":" + setID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetCurrent(ctx, callID, setID)
		if err != nil {
			return nil, err
		}
		return cachedRotation{value: item, exists: exists}, nil
	})
	if err != nil {
		return rotation.Rotation{}, false, err
	}

	cached, _ := v.(cachedRotation)
	return cached.value, cached.exists, nil
}

func (r *RotationRepository) GetByID(ctx context.Context, rotationID string) (rotation.Rotation, bool, error) {
	key := "rotation:id:" + rotationID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, rotationID)
		if err != nil {
			return nil, err
		}
		return cachedRotation{value: item, exists: exists}, nil
	})
	if err != nil {
		return rotation.Rotation{}, false, err
	}

	cached, _ := v.(cachedRotation)
	return cached.value, cached.exists, nil
}

func (r *RotationRepository) Upsert(ctx context.Context, item rotation.Rotation) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}

	r.cache.Delete(ctx, "rotation:list:"+item.CallID+":"+item.SetID)
	r.cache.Delete(ctx, "rotation:current:"+item.CallID+":"+item.SetID)
	r.cache.Delete(ctx, "rotation:id:"+item.ID)
	return nil
}

type cachedRotation struct {
	value  rotation.Rotation
	exists bool
}
