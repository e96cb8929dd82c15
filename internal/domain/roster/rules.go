package roster

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCaptain     = errors.New("more than one captain on roster")
	ErrDuplicateLibero      = errors.New("more than one libero on roster")
	ErrDuplicateShirtNumber = errors.New("duplicate shirt number on roster")
	ErrDuplicateProfile     = errors.New("duplicate profile on roster")
	ErrRosterLocked         = errors.New("roster is locked")
	ErrEntryNotFound        = errors.New("entry not found on roster")
)

// Validate checks the structural invariants of a call: at most one captain,
// at most one libero, shirt numbers pairwise distinct.
func Validate(r Roster) error {
	captainCount := 0
	liberoCount := 0
	shirtSeen := make(map[int]string, len(r.Entries))
	profileSeen := make(map[string]struct{}, len(r.Entries))

	for _, e := range r.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, exists := profileSeen[e.ProfileID]; exists {
			return fmt.Errorf("%w: profile=%s", ErrDuplicateProfile, e.ProfileID)
		}
		profileSeen[e.ProfileID] = struct{}{}

		if e.IsCaptain {
			captainCount++
			if captainCount > 1 {
				return fmt.Errorf("%w: profile=%s", ErrDuplicateCaptain, e.ProfileID)
			}
		}
		if e.IsLibero {
			liberoCount++
			if liberoCount > 1 {
				return fmt.Errorf("%w: profile=%s", ErrDuplicateLibero, e.ProfileID)
			}
		}
		if other, exists := shirtSeen[e.ShirtNumber]; exists {
			return fmt.Errorf("%w: number=%d profiles=%s,%s", ErrDuplicateShirtNumber, e.ShirtNumber, other, e.ProfileID)
		}
		shirtSeen[e.ShirtNumber] = e.ProfileID
	}

	return nil
}

// CaptainID returns the captain's profile id, or empty when no captain is named.
func CaptainID(r Roster) string {
	for _, e := range r.Entries {
		if e.IsCaptain {
			return e.ProfileID
		}
	}
	return ""
}

// LiberoID returns the libero's profile id, or empty when no libero is named.
func LiberoID(r Roster) string {
	for _, e := range r.Entries {
		if e.IsLibero {
			return e.ProfileID
		}
	}
	return ""
}

func FindByProfileID(r Roster, profileID string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.ProfileID == profileID {
			return e, true
		}
	}
	return Entry{}, false
}

// AddEntry appends a new entry, keeping the roster invariants. Locked rosters
// reject any mutation.
func AddEntry(r Roster, entry Entry) (Roster, error) {
	if r.Locked {
		return Roster{}, fmt.Errorf("%w: roster=%s", ErrRosterLocked, r.ID)
	}

	next := r
	next.Entries = append(append([]Entry(nil), r.Entries...), entry)
	if err := Validate(next); err != nil {
		return Roster{}, err
	}

	return next, nil
}

// RemoveEntry drops the entry for profileID. Locked rosters reject any mutation.
func RemoveEntry(r Roster, profileID string) (Roster, error) {
	if r.Locked {
		return Roster{}, fmt.Errorf("%w: roster=%s", ErrRosterLocked, r.ID)
	}
	if _, ok := FindByProfileID(r, profileID); !ok {
		return Roster{}, fmt.Errorf("%w: profile=%s", ErrEntryNotFound, profileID)
	}

	next := r
	next.Entries = make([]Entry, 0, len(r.Entries)-1)
	for _, e := range r.Entries {
		if e.ProfileID != profileID {
			next.Entries = append(next.Entries, e)
		}
	}

	return next, nil
}
