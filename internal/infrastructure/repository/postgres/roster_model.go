package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/roster"
)

type rosterTableModel struct {
	ID        string     `db:"public_id"`
	MatchID   string     `db:"match_public_id"`
	TeamID    string     `db:"team_public_id"`
	Locked    bool       `db:"locked"`
	Entries   []byte     `db:"entries"`
	UpdatedAt time.Time  `db:"updated_at"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// rosterEntryRecord is the JSONB shape of one roster entry. Kept separate from
// the domain type so column naming can evolve without touching domain code.
type rosterEntryRecord struct {
	ProfileID   string `json:"profileId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Avatar      string `json:"avatar,omitempty"`
	ShirtNumber int    `json:"shirtNumber"`
	IsCaptain   bool   `json:"isCaptain"`
	IsLibero    bool   `json:"isLibero"`
}

func rosterFromRow(row rosterTableModel) (roster.Roster, error) {
	var records []rosterEntryRecord
	if len(row.Entries) > 0 {
		if err := sonic.Unmarshal(row.Entries, &records); err != nil {
			return roster.Roster{}, fmt.Errorf("decode roster entries: %w", err)
		}
	}

	entries := make([]roster.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, roster.Entry{
			ProfileID:   rec.ProfileID,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			Avatar:      rec.Avatar,
			ShirtNumber: rec.ShirtNumber,
			IsCaptain:   rec.IsCaptain,
			IsLibero:    rec.IsLibero,
		})
	}

	return roster.Roster{
		ID:        row.ID,
		MatchID:   row.MatchID,
		TeamID:    row.TeamID,
		Locked:    row.Locked,
		Entries:   entries,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func rosterEntriesToJSON(entries []roster.Entry) ([]byte, error) {
	records := make([]rosterEntryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, rosterEntryRecord{
			ProfileID:   e.ProfileID,
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Avatar:      e.Avatar,
			ShirtNumber: e.ShirtNumber,
			IsCaptain:   e.IsCaptain,
			IsLibero:    e.IsLibero,
		})
	}

	payload, err := sonic.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode roster entries: %w", err)
	}
	return payload, nil
}
