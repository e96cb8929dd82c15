package roster

import (
	"fmt"
	"time"
)

// Entry is one member named on a team's call for a match.
type Entry struct {
	ProfileID   string
	FirstName   string
	LastName    string
	Avatar      string
	ShirtNumber int
	IsCaptain   bool
	IsLibero    bool
}

// Roster is the list of eligible members a team has named for one match.
// Once Locked, entries are immutable; lookups stay available.
type Roster struct {
	ID        string
	MatchID   string
	TeamID    string
	Locked    bool
	Entries   []Entry
	UpdatedAt time.Time
}

func (e Entry) Validate() error {
	if e.ProfileID == "" {
		return fmt.Errorf("entry profile id is required")
	}
	if e.FirstName == "" {
		return fmt.Errorf("entry first name is required: profile=%s", e.ProfileID)
	}
	if e.ShirtNumber <= 0 {
		return fmt.Errorf("entry shirt number must be greater than zero: profile=%s", e.ProfileID)
	}

	return nil
}

func (r Roster) ValidateBasic() error {
	if r.ID == "" {
		return fmt.Errorf("roster id is required")
	}
	if r.MatchID == "" {
		return fmt.Errorf("roster match id is required")
	}
	if r.TeamID == "" {
		return fmt.Errorf("roster team id is required")
	}

	return nil
}
