package rotation

import (
	"errors"
	"fmt"
)

var (
	ErrRotationLocked       = errors.New("rotation is locked")
	ErrPlayerNotOnCourt     = errors.New("player is not on court in this rotation")
	ErrPlayerAlreadyOnCourt = errors.New("player already occupies a slot in this rotation")
)

// CurrentSlot returns the slot whose in-court player is profileID.
func CurrentSlot(r Rotation, profileID string) (Slot, bool) {
	for _, s := range r.Slots {
		if s.InCourtProfileID == profileID {
			return s, true
		}
	}
	return Slot{}, false
}

// ProposeChange validates a substitution against the rotation and returns the
// slot the incoming player would occupy. The slot inherits the outgoing
// player's position; the libero flag follows the incoming player's roster
// flag, never the outgoing slot. The rotation itself is not modified.
func ProposeChange(r Rotation, outgoingID, incomingID string, incomingIsLibero bool) (Slot, error) {
	if r.Locked {
		return Slot{}, fmt.Errorf("%w: rotation=%s number=%d", ErrRotationLocked, r.ID, r.Number)
	}

	outgoing, ok := CurrentSlot(r, outgoingID)
	if !ok {
		return Slot{}, fmt.Errorf("%w: profile=%s", ErrPlayerNotOnCourt, outgoingID)
	}
	if _, ok := CurrentSlot(r, incomingID); ok {
		return Slot{}, fmt.Errorf("%w: profile=%s", ErrPlayerAlreadyOnCourt, incomingID)
	}

	return Slot{
		ProfileID:            outgoing.ProfileID,
		RotationID:           r.ID,
		ReplacementProfileID: incomingID,
		InCourtProfileID:     incomingID,
		Position:             outgoing.Position,
		IsLibero:             incomingIsLibero,
	}, nil
}

// ApplyChange returns a copy of the rotation with the proposed slot in place
// of the outgoing player's slot.
func ApplyChange(r Rotation, proposed Slot) (Rotation, error) {
	if r.Locked {
		return Rotation{}, fmt.Errorf("%w: rotation=%s number=%d", ErrRotationLocked, r.ID, r.Number)
	}

	next := r
	next.Slots = make([]Slot, 0, len(r.Slots))
	replaced := false
	for _, s := range r.Slots {
		if !replaced && s.ProfileID == proposed.ProfileID && s.Position == proposed.Position {
			next.Slots = append(next.Slots, proposed)
			replaced = true
			continue
		}
		next.Slots = append(next.Slots, s)
	}
	if !replaced {
		return Rotation{}, fmt.Errorf("%w: profile=%s", ErrPlayerNotOnCourt, proposed.ProfileID)
	}

	return next, nil
}

// Successor clones a rotation into the next Open arrangement at Number+1.
// Locked rotations are never mutated; every change after lock happens on the
// successor.
func Successor(r Rotation, id string) Rotation {
	next := r
	next.ID = id
	next.Number = r.Number + 1
	next.Locked = false
	next.Slots = make([]Slot, len(r.Slots))
	copy(next.Slots, r.Slots)
	for i := range next.Slots {
		next.Slots[i].RotationID = id
	}
	return next
}

// CurrentIndex folds an ordered rotation history into a team -> profile ->
// rotation-number index, last write per profile winning. It answers "what
// rotation number is this player currently in" without re-walking history on
// every query.
func CurrentIndex(history []Rotation) map[string]map[string]int {
	index := make(map[string]map[string]int)
	for _, r := range history {
		team := index[r.TeamID]
		if team == nil {
			team = make(map[string]int)
			index[r.TeamID] = team
		}
		for _, s := range r.Slots {
			team[s.InCourtProfileID] = r.Number
		}
	}
	return index
}
