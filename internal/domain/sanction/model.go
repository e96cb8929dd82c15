package sanction

import "time"

// Kind distinguishes sanctions against a whole team from sanctions against an
// individual member (player or coach).
type Kind string

const (
	KindTeam   Kind = "TEAM"
	KindMember Kind = "MEMBER"
)

// MemberRole identifies which side of a member sanction the target sits on.
type MemberRole string

const (
	RolePlayer MemberRole = "PLAYER"
	RoleCoach  MemberRole = "COACH"
)

// Scope selects how a history query is bounded: one set or the whole game.
type Scope string

const (
	ScopeSet  Scope = "SET"
	ScopeGame Scope = "GAME"
)

// Sanction is one disciplinary action in the append-only match log.
// Member sanctions target exactly one of PlayerProfileID/CoachProfileID.
type Sanction struct {
	ID              string
	MatchID         string
	Kind            Kind
	Severity        Severity
	SetID           string
	TeamID          string
	PlayerProfileID string
	CoachProfileID  string
	IssuedAt        time.Time
}

func (s Sanction) targetsMember(profileID string, role MemberRole) bool {
	if s.Kind != KindMember {
		return false
	}
	switch role {
	case RolePlayer:
		return s.PlayerProfileID == profileID
	case RoleCoach:
		return s.CoachProfileID == profileID
	default:
		return false
	}
}

// MergeWithoutDuplicates concatenates sanction histories keeping the first
// occurrence of each id. Used when merging optimistic local state with a
// server refresh; merging a list with itself yields the original list.
func MergeWithoutDuplicates(histories ...[]Sanction) []Sanction {
	total := 0
	for _, h := range histories {
		total += len(h)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]Sanction, 0, total)
	for _, h := range histories {
		for _, s := range h {
			if _, exists := seen[s.ID]; exists {
				continue
			}
			seen[s.ID] = struct{}{}
			merged = append(merged, s)
		}
	}

	return merged
}
