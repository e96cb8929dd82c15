package injury

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/courtside/matchcontrol/internal/domain/roster"
)

var (
	ErrUnknownIncomingPlayer = errors.New("replacement player is not on the roster")
	ErrUnknownInjuredPlayer  = errors.New("injured player is not on the roster")
)

const minDescriptionLength = 3

// Substitution is the mandatory lineup change an injury resolves to. Injured
// always equals Out; it is carried separately so callers can surface the
// injured member even after further substitutions shuffle the slot.
type Substitution struct {
	In      roster.Entry
	Out     roster.Entry
	Injured roster.Entry
}

// Resolve maps an injury onto the roster, producing the forced substitution.
// The incoming player is resolved first; the error tells the caller which side
// of the pair is unknown.
func Resolve(item Injury, r roster.Roster) (Substitution, error) {
	in, ok := roster.FindByProfileID(r, item.ReplacementProfileID)
	if !ok {
		return Substitution{}, fmt.Errorf("%w: profile=%s", ErrUnknownIncomingPlayer, item.ReplacementProfileID)
	}

	out, ok := roster.FindByProfileID(r, item.ProfileID)
	if !ok {
		return Substitution{}, fmt.Errorf("%w: profile=%s", ErrUnknownInjuredPlayer, item.ProfileID)
	}

	return Substitution{In: in, Out: out, Injured: out}, nil
}

// FieldError names the first missing or invalid field of an injury report.
// Key is a stable identifier the caller can map to a user-facing message.
type FieldError struct {
	Key string
}

func (e *FieldError) Error() string {
	return "injury report field invalid: " + e.Key
}

// Diagnostic keys, in the order ValidateReport checks them.
const (
	KeyGameIDRequired           = "injury.gameId.required"
	KeySetIDRequired            = "injury.setId.required"
	KeyRotationIDRequired       = "injury.rotationId.required"
	KeyTeamIDRequired           = "injury.teamId.required"
	KeyItemsRequired            = "injury.items.required"
	KeyPlayerRotationIDRequired = "injury.item.playerRotationId.required"
	KeyProfileIDRequired        = "injury.item.profileId.required"
	KeyReplacementIDRequired    = "injury.item.replacementProfileId.required"
	KeyDescriptionTooShort      = "injury.item.description.tooShort"
)

// ValidateReport checks the report form field by field and stops at the first
// problem, so callers can drive incremental form validation one message at a
// time.
func ValidateReport(report Report) error {
	if report.GameID == "" {
		return &FieldError{Key: KeyGameIDRequired}
	}
	if report.SetID == "" {
		return &FieldError{Key: KeySetIDRequired}
	}
	if report.RotationID == "" {
		return &FieldError{Key: KeyRotationIDRequired}
	}
	if report.TeamID == "" {
		return &FieldError{Key: KeyTeamIDRequired}
	}
	if len(report.Items) == 0 {
		return &FieldError{Key: KeyItemsRequired}
	}

	for _, item := range report.Items {
		if item.PlayerRotationID == "" {
			return &FieldError{Key: KeyPlayerRotationIDRequired}
		}
		if item.ProfileID == "" {
			return &FieldError{Key: KeyProfileIDRequired}
		}
		if item.ReplacementProfileID == "" {
			return &FieldError{Key: KeyReplacementIDRequired}
		}
		if utf8.RuneCountInString(item.Description) < minDescriptionLength {
			return &FieldError{Key: KeyDescriptionTooShort}
		}
	}

	return nil
}
