package postgres

import (
	"context"
	"fmt"

	"github.com/courtside/matchcontrol/internal/domain/rotation"
	qb "github.com/courtside/matchcontrol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type RotationRepository struct {
	db *sqlx.DB
}

func NewRotationRepository(db *sqlx.DB) *RotationRepository {
	return &RotationRepository{db: db}
}

func (r *RotationRepository) ListByCallAndSet(ctx context.Context, callID, setID string) ([]rotation.Rotation, error) {
	query, args, err := rotationBaseSelectBuilder().
		Where(
			qb.Eq("call_public_id", callID),
			qb.Eq("set_public_id", setID),
		).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rotations query: %w", err)
	}

	var rows []rotationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rotations: %w", err)
	}

	out := make([]rotation.Rotation, 0, len(rows))
	for _, row := range rows {
		item, err := rotationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RotationRepository) GetCurrent(ctx context.Context, callID, setID string) (rotation.Rotation, bool, error) {
	query, args, err := rotationBaseSelectBuilder().
		Where(
			qb.Eq("call_public_id", callID),
			qb.Eq("set_public_id", setID),
		).
		OrderBy("number DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return rotation.Rotation{}, false, fmt.Errorf("build get current rotation query: %w", err)
	}

	var row rotationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rotation.Rotation{}, false, nil
		}
		return rotation.Rotation{}, false, fmt.Errorf("get current rotation: %w", err)
	}

	item, err := rotationFromRow(row)
	if err != nil {
		return rotation.Rotation{}, false, err
	}
	return item, true, nil
}

func (r *RotationRepository) GetByID(ctx context.Context, rotationID string) (rotation.Rotation, bool, error) {
	query, args, err := rotationBaseSelectBuilder().
		Where(qb.Eq("public_id", rotationID)).
		ToSQL()
	if err != nil {
		return rotation.Rotation{}, false, fmt.Errorf("build get rotation query: %w", err)
	}

	var row rotationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rotation.Rotation{}, false, nil
		}
		return rotation.Rotation{}, false, fmt.Errorf("get rotation: %w", err)
	}

	item, err := rotationFromRow(row)
	if err != nil {
		return rotation.Rotation{}, false, err
	}
	return item, true, nil
}

func (r *RotationRepository) Upsert(ctx context.Context, item rotation.Rotation) error {
	slots, err := rotationSlotsToJSON(item.Slots)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("rotations").
		Columns("public_id", "call_public_id", "set_public_id", "team_public_id", "number", "locked", "slots", "created_at").
		Values(item.ID, item.CallID, item.SetID, item.TeamID, item.Number, item.Locked, slots, item.CreatedAt).
		Suffix(`ON CONFLICT (public_id)
DO UPDATE SET
    locked = EXCLUDED.locked,
    slots = EXCLUDED.slots`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build rotation upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rotation: %w", err)
	}
	return nil
}

func rotationBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("public_id", "call_public_id", "set_public_id", "team_public_id", "number", "locked", "slots", "created_at").
		From("rotations")
}
