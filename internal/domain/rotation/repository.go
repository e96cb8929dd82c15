package rotation

import "context"

// Repository describes the ordered rotation history from use cases.
type Repository interface {
	ListByCallAndSet(ctx context.Context, callID, setID string) ([]Rotation, error)
	GetCurrent(ctx context.Context, callID, setID string) (Rotation, bool, error)
	GetByID(ctx context.Context, rotationID string) (Rotation, bool, error)
	Upsert(ctx context.Context, item Rotation) error
}
