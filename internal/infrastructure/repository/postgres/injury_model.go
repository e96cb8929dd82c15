package postgres

import (
	"time"

	"github.com/courtside/matchcontrol/internal/domain/injury"
)

type injuryTableModel struct {
	ID                   string    `db:"public_id"`
	GameID               string    `db:"game_public_id"`
	SetID                string    `db:"set_public_id"`
	RotationID           string    `db:"rotation_public_id"`
	TeamID               string    `db:"team_public_id"`
	PlayerRotationID     string    `db:"player_rotation_id"`
	ProfileID            string    `db:"profile_id"`
	ReplacementProfileID string    `db:"replacement_profile_id"`
	IsLibero             bool      `db:"is_libero"`
	Description          string    `db:"description"`
	ReportedAt           time.Time `db:"reported_at"`
	CreatedAt            time.Time `db:"created_at"`
}

func injuryFromRow(row injuryTableModel) injury.Injury {
	return injury.Injury{
		ID:                   row.ID,
		GameID:               row.GameID,
		SetID:                row.SetID,
		RotationID:           row.RotationID,
		TeamID:               row.TeamID,
		PlayerRotationID:     row.PlayerRotationID,
		ProfileID:            row.ProfileID,
		ReplacementProfileID: row.ReplacementProfileID,
		IsLibero:             row.IsLibero,
		Description:          row.Description,
		ReportedAt:           row.ReportedAt,
	}
}
