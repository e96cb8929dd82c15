package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
)

type rotationTableModel struct {
	ID        string    `db:"public_id"`
	CallID    string    `db:"call_public_id"`
	SetID     string    `db:"set_public_id"`
	TeamID    string    `db:"team_public_id"`
	Number    int       `db:"number"`
	Locked    bool      `db:"locked"`
	Slots     []byte    `db:"slots"`
	CreatedAt time.Time `db:"created_at"`
}

type rotationSlotRecord struct {
	ProfileID            string `json:"profileId"`
	RotationID           string `json:"rotationId"`
	ReplacementProfileID string `json:"replacementProfileId,omitempty"`
	InCourtProfileID     string `json:"inCourtProfileId"`
	Position             int    `json:"position"`
	IsLibero             bool   `json:"isLibero"`
}

func rotationFromRow(row rotationTableModel) (rotation.Rotation, error) {
	var records []rotationSlotRecord
	if len(row.Slots) > 0 {
		if err := sonic.Unmarshal(row.Slots, &records); err != nil {
			return rotation.Rotation{}, fmt.Errorf("decode rotation slots: %w", err)
		}
	}

	slots := make([]rotation.Slot, 0, len(records))
	for _, rec := range records {
		slots = append(slots, rotation.Slot{
			ProfileID:            rec.ProfileID,
			RotationID:           rec.RotationID,
			ReplacementProfileID: rec.ReplacementProfileID,
			InCourtProfileID:     rec.InCourtProfileID,
			Position:             rec.Position,
			IsLibero:             rec.IsLibero,
		})
	}

	return rotation.Rotation{
		ID:        row.ID,
		CallID:    row.CallID,
		SetID:     row.SetID,
		TeamID:    row.TeamID,
		Number:    row.Number,
		Locked:    row.Locked,
		Slots:     slots,
		CreatedAt: row.CreatedAt,
	}, nil
}

func rotationSlotsToJSON(slots []rotation.Slot) ([]byte, error) {
	records := make([]rotationSlotRecord, 0, len(slots))
	for _, s := range slots {
		records = append(records, rotationSlotRecord{
			ProfileID:            s.ProfileID,
			RotationID:           s.RotationID,
			ReplacementProfileID: s.ReplacementProfileID,
			InCourtProfileID:     s.InCourtProfileID,
			Position:             s.Position,
			IsLibero:             s.IsLibero,
		})
	}

	payload, err := sonic.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode rotation slots: %w", err)
	}
	return payload, nil
}
