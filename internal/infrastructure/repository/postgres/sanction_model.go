package postgres

import (
	"time"

	"github.com/courtside/matchcontrol/internal/domain/sanction"
)

type sanctionTableModel struct {
	ID              string    `db:"public_id"`
	MatchID         string    `db:"match_public_id"`
	Kind            string    `db:"kind"`
	Severity        string    `db:"severity"`
	SetID           string    `db:"set_public_id"`
	TeamID          string    `db:"team_public_id"`
	PlayerProfileID string    `db:"player_profile_id"`
	CoachProfileID  string    `db:"coach_profile_id"`
	IssuedAt        time.Time `db:"issued_at"`
	CreatedAt       time.Time `db:"created_at"`
}

func sanctionFromRow(row sanctionTableModel) sanction.Sanction {
	return sanction.Sanction{
		ID:              row.ID,
		MatchID:         row.MatchID,
		Kind:            sanction.Kind(row.Kind),
		Severity:        sanction.Severity(row.Severity),
		SetID:           row.SetID,
		TeamID:          row.TeamID,
		PlayerProfileID: row.PlayerProfileID,
		CoachProfileID:  row.CoachProfileID,
		IssuedAt:        row.IssuedAt,
	}
}
