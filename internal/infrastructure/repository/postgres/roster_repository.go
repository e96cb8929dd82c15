package postgres

import (
	"context"
	"fmt"

	"github.com/courtside/matchcontrol/internal/domain/roster"
	qb "github.com/courtside/matchcontrol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (roster.Roster, bool, error) {
	query, args, err := rosterBaseSelectBuilder().
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}

	item, err := rosterFromRow(row)
	if err != nil {
		return roster.Roster{}, false, err
	}
	return item, true, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Roster, error) {
	query, args, err := rosterBaseSelectBuilder().
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rosters query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rosters by match: %w", err)
	}

	out := make([]roster.Roster, 0, len(rows))
	for _, row := range rows {
		item, err := rosterFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, item roster.Roster) error {
	entries, err := rosterEntriesToJSON(item.Entries)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("rosters").
		Columns("public_id", "match_public_id", "team_public_id", "locked", "entries", "updated_at").
		Values(item.ID, item.MatchID, item.TeamID, item.Locked, entries, item.UpdatedAt).
		Suffix(`ON CONFLICT (match_public_id, team_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    locked = EXCLUDED.locked,
    entries = EXCLUDED.entries,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build roster upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert roster: %w", err)
	}
	return nil
}

func rosterBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "match_public_id", "team_public_id", "locked", "entries", "updated_at", "created_at", "deleted_at").
		From("rosters")
}
