package sanction

import "context"

// Repository describes the append-only sanction log from use cases.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Sanction, error)
	Append(ctx context.Context, item Sanction) error
}
