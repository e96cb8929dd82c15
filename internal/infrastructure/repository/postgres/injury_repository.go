package postgres

import (
	"context"
	"fmt"

	"github.com/courtside/matchcontrol/internal/domain/injury"
	qb "github.com/courtside/matchcontrol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type InjuryRepository struct {
	db *sqlx.DB
}

func NewInjuryRepository(db *sqlx.DB) *InjuryRepository {
	return &InjuryRepository{db: db}
}

func (r *InjuryRepository) ListByGame(ctx context.Context, gameID string) ([]injury.Injury, error) {
	query, args, err := injuryBaseSelectBuilder().
		Where(qb.Eq("game_public_id", gameID)).
		OrderBy("reported_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list injuries query: %w", err)
	}

	var rows []injuryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list injuries by game: %w", err)
	}

	out := make([]injury.Injury, 0, len(rows))
	for _, row := range rows {
		out = append(out, injuryFromRow(row))
	}
	return out, nil
}

func (r *InjuryRepository) Append(ctx context.Context, items ...injury.Injury) error {
	if len(items) == 0 {
		return nil
	}

	builder := qb.InsertInto("injuries").
		Columns("public_id", "game_public_id", "set_public_id", "rotation_public_id", "team_public_id", "player_rotation_id", "profile_id", "replacement_profile_id", "is_libero", "description", "reported_at")
	for _, item := range items {
		builder = builder.Values(item.ID, item.GameID, item.SetID, item.RotationID, item.TeamID, item.PlayerRotationID, item.ProfileID, item.ReplacementProfileID, item.IsLibero, item.Description, item.ReportedAt)
	}

	query, args, err := builder.Suffix("ON CONFLICT (public_id) DO NOTHING").ToSQL()
	if err != nil {
		return fmt.Errorf("build injury insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append injuries: %w", err)
	}
	return nil
}

func injuryBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "game_public_id", "set_public_id", "rotation_public_id", "team_public_id", "player_rotation_id", "profile_id", "replacement_profile_id", "is_libero", "description", "reported_at", "created_at").
		From("injuries")
}
