package memory

import (
	"context"
	"sync"

	"github.com/courtside/matchcontrol/internal/domain/rotation"
)

// RotationRepository keeps the ordered rotation history per (call, set) in
// memory. History order is append order; Upsert of an existing rotation id
// replaces it in place.
type RotationRepository struct {
	mu    sync.RWMutex
	items map[string][]rotation.Rotation
}

func NewRotationRepository(seed []rotation.Rotation) *RotationRepository {
	r := &RotationRepository{items: make(map[string][]rotation.Rotation)}
	for _, item := range seed {
		key := rotationKey(item.CallID, item.SetID)
		r.items[key] = append(r.items[key], cloneRotation(item))
	}
	return r
}

func (r *RotationRepository) ListByCallAndSet(_ context.Context, callID, setID string) ([]rotation.Rotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.items[rotationKey(callID, setID)]
	out := make([]rotation.Rotation, 0, len(history))
	for _, item := range history {
		out = append(out, cloneRotation(item))
	}

	return out, nil
}

func (r *RotationRepository) GetCurrent(_ context.Context, callID, setID string) (rotation.Rotation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.items[rotationKey(callID, setID)]
	if len(history) == 0 {
		return rotation.Rotation{}, false, nil
	}

	return cloneRotation(history[len(history)-1]), true, nil
}

func (r *RotationRepository) GetByID(_ context.Context, rotationID string) (rotation.Rotation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, history := range r.items {
		for _, item := range history {
			if item.ID == rotationID {
				return cloneRotation(item), true, nil
			}
		}
	}

	return rotation.Rotation{}, false, nil
}

func (r *RotationRepository) Upsert(_ context.Context, item rotation.Rotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rotationKey(item.CallID, item.SetID)
	history := r.items[key]
	for i, existing := range history {
		if existing.ID == item.ID {
			history[i] = cloneRotation(item)
			return nil
		}
	}

	r.items[key] = append(history, cloneRotation(item))
	return nil
}

func rotationKey(callID, setID string) string {
	return callID + "::" + setID
}

func cloneRotation(item rotation.Rotation) rotation.Rotation {
	copied := item
	copied.Slots = append([]rotation.Slot(nil), item.Slots...)
	return copied
}
