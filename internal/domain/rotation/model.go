package rotation

import "time"

// Slot is one on-court position assignment inside a rotation. ProfileID is the
// member originally assigned to the position; InCourtProfileID is whoever
// occupies it right now (differs after a substitution).
type Slot struct {
	ProfileID            string
	RotationID           string
	ReplacementProfileID string
	InCourtProfileID     string
	Position             int
	IsLibero             bool
}

// Rotation is one numbered arrangement of a team's lineup within a set. A
// rotation is created Open; once play advances on it, it locks and any further
// change happens on a successor at Number+1.
type Rotation struct {
	ID        string
	CallID    string
	SetID     string
	TeamID    string
	Number    int
	Locked    bool
	Slots     []Slot
	CreatedAt time.Time
}
