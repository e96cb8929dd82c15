package injury

import "context"

// Repository is the append-only injury log as seen from use cases.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Injury, error)
	Append(ctx context.Context, items ...Injury) error
}
