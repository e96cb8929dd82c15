package postgres

import (
	"context"
	"fmt"

	"github.com/courtside/matchcontrol/internal/domain/sanction"
	qb "github.com/courtside/matchcontrol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type SanctionRepository struct {
	db *sqlx.DB
}

func NewSanctionRepository(db *sqlx.DB) *SanctionRepository {
	return &SanctionRepository{db: db}
}

func (r *SanctionRepository) ListByMatch(ctx context.Context, matchID string) ([]sanction.Sanction, error) {
	query, args, err := sanctionBaseSelectBuilder().
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("issued_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sanctions query: %w", err)
	}

	var rows []sanctionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sanctions by match: %w", err)
	}

	out := make([]sanction.Sanction, 0, len(rows))
	for _, row := range rows {
		out = append(out, sanctionFromRow(row))
	}
	return out, nil
}

func (r *SanctionRepository) Append(ctx context.Context, item sanction.Sanction) error {
	query, args, err := qb.InsertInto("sanctions").
		Columns("public_id", "match_public_id", "kind", "severity", "set_public_id", "team_public_id", "player_profile_id", "coach_profile_id", "issued_at").
		Values(item.ID, item.MatchID, string(item.Kind), string(item.Severity), item.SetID, item.TeamID, item.PlayerProfileID, item.CoachProfileID, item.IssuedAt).
		Suffix("ON CONFLICT (public_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build sanction insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append sanction: %w", err)
	}
	return nil
}

func sanctionBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "match_public_id", "kind", "severity", "set_public_id", "team_public_id", "player_profile_id", "coach_profile_id", "issued_at", "created_at").
		From("sanctions")
}
