package sanction

import (
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("missing required field")

// StoreRequest is the validated payload handed to the persistence layer when a
// new sanction is recorded. Construction fails fast on the first missing
// field so forms can surface one problem at a time.
type StoreRequest struct {
	Kind            Kind
	Severity        Severity
	SetID           string
	TeamID          string
	PlayerProfileID string
	CoachProfileID  string
}

// ToStoreRequest builds a StoreRequest, reporting the first missing field in
// the order kind, severity, set id, team id, member target.
func ToStoreRequest(kind Kind, severity Severity, setID, teamID, playerProfileID, coachProfileID string) (StoreRequest, error) {
	if kind == "" {
		return StoreRequest{}, fmt.Errorf("%w: kind", ErrMissingField)
	}
	if severity == "" {
		return StoreRequest{}, fmt.Errorf("%w: severity", ErrMissingField)
	}
	if setID == "" {
		return StoreRequest{}, fmt.Errorf("%w: set id", ErrMissingField)
	}
	if teamID == "" {
		return StoreRequest{}, fmt.Errorf("%w: team id", ErrMissingField)
	}
	if kind == KindMember && playerProfileID == "" && coachProfileID == "" {
		return StoreRequest{}, fmt.Errorf("%w: member sanction needs a player or coach profile id", ErrMissingField)
	}

	return StoreRequest{
		Kind:            kind,
		Severity:        severity,
		SetID:           setID,
		TeamID:          teamID,
		PlayerProfileID: playerProfileID,
		CoachProfileID:  coachProfileID,
	}, nil
}
