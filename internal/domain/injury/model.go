package injury

import "time"

// Injury is one confirmed injury event: exactly one outgoing player, one
// incoming replacement, on one team, one set, one rotation.
type Injury struct {
	ID                   string
	GameID               string
	SetID                string
	RotationID           string
	TeamID               string
	PlayerRotationID     string
	ProfileID            string
	ReplacementProfileID string
	IsLibero             bool
	Description          string
	ReportedAt           time.Time
}

// Report is the raw injury form as submitted, before any resolution. A report
// may carry several line items; each resolves independently.
type Report struct {
	GameID     string
	SetID      string
	RotationID string
	TeamID     string
	Items      []ReportItem
}

type ReportItem struct {
	PlayerRotationID     string
	ProfileID            string
	ReplacementProfileID string
	IsLibero             bool
	Description          string
}
