package roster

import "context"

// Repository describes roster snapshot needs from use cases.
type Repository interface {
	GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (Roster, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Roster, error)
	Upsert(ctx context.Context, item Roster) error
}
