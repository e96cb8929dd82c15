package memory

import (
	"github.com/courtside/matchcontrol/internal/domain/roster"
	"github.com/courtside/matchcontrol/internal/domain/rotation"
)

const (
	MatchIDDemoFinal = "vbl-2026-final"
	TeamIDHarbor     = "vbc-harbor"
	TeamIDGranite    = "vbc-granite"
	CallIDHarbor     = "call-harbor-final"
	CallIDGranite    = "call-granite-final"
	SetIDFirst       = "set-1"
)

func SeedRosters() []roster.Roster {
	return []roster.Roster{
		{
			ID:      CallIDHarbor,
			MatchID: MatchIDDemoFinal,
			TeamID:  TeamIDHarbor,
			Entries: []roster.Entry{
				{ProfileID: "hrb-01", FirstName: "Maren", LastName: "Steiner", ShirtNumber: 1, IsCaptain: true},
				{ProfileID: "hrb-02", FirstName: "Ilse", LastName: "Brandt", ShirtNumber: 4},
				{ProfileID: "hrb-03", FirstName: "Tuva", LastName: "Holm", ShirtNumber: 7},
				{ProfileID: "hrb-04", FirstName: "Greta", LastName: "Lindqvist", ShirtNumber: 9},
				{ProfileID: "hrb-05", FirstName: "Nora", LastName: "Vik", ShirtNumber: 11},
				{ProfileID: "hrb-06", FirstName: "Sanne", LastName: "Dekker", ShirtNumber: 12},
				{ProfileID: "hrb-07", FirstName: "Lena", LastName: "Aalto", ShirtNumber: 14, IsLibero: true},
				{ProfileID: "hrb-08", FirstName: "Petra", LastName: "Kovacs", ShirtNumber: 17},
			},
		},
		{
			ID:      CallIDGranite,
			MatchID: MatchIDDemoFinal,
			TeamID:  TeamIDGranite,
			Entries: []roster.Entry{
				{ProfileID: "grn-01", FirstName: "Aino", LastName: "Niemi", ShirtNumber: 2, IsCaptain: true},
				{ProfileID: "grn-02", FirstName: "Freja", LastName: "Dahl", ShirtNumber: 3},
				{ProfileID: "grn-03", FirstName: "Ida", LastName: "Berg", ShirtNumber: 5},
				{ProfileID: "grn-04", FirstName: "Silja", LastName: "Koski", ShirtNumber: 6},
				{ProfileID: "grn-05", FirstName: "Ronja", LastName: "Lund", ShirtNumber: 8},
				{ProfileID: "grn-06", FirstName: "Elin", LastName: "Sato", ShirtNumber: 10},
				{ProfileID: "grn-07", FirstName: "Mika", LastName: "Tanner", ShirtNumber: 13, IsLibero: true},
			},
		},
	}
}

// SeedRotations opens set 1 for the Harbor call with the first six roster
// members on court.
func SeedRotations() []rotation.Rotation {
	slots := make([]rotation.Slot, 0, 6)
	for i, profileID := range []string{"hrb-01", "hrb-02", "hrb-03", "hrb-04", "hrb-05", "hrb-06"} {
		slots = append(slots, rotation.Slot{
			ProfileID:        profileID,
			RotationID:       "rot-harbor-1",
			InCourtProfileID: profileID,
			Position:         i + 1,
		})
	}

	return []rotation.Rotation{
		{
			ID:     "rot-harbor-1",
			CallID: CallIDHarbor,
			SetID:  SetIDFirst,
			TeamID: TeamIDHarbor,
			Number: 1,
			Slots:  slots,
		},
	}
}
