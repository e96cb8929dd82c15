package sanction

// Severity is one rung of the escalation ladder. Order matters: a rung can be
// handed out only while no rung at or above it has been reached in scope.
type Severity string

const (
	SeverityWarning       Severity = "WARNING"
	SeverityPointAgainst  Severity = "POINT_AGAINST"
	SeveritySetExpulsion  Severity = "SET_EXPULSION"
	SeverityGameExpulsion Severity = "GAME_EXPULSION"
)

// memberLadder is the full escalation order for individual members. The team
// ladder is its first two rungs.
var memberLadder = []Severity{
	SeverityWarning,
	SeverityPointAgainst,
	SeveritySetExpulsion,
	SeverityGameExpulsion,
}

var severityRank = map[Severity]int{
	SeverityWarning:       0,
	SeverityPointAgainst:  1,
	SeveritySetExpulsion:  2,
	SeverityGameExpulsion: 3,
}

// TeamLadder returns the ordered severities a team can ever receive.
func TeamLadder() []Severity {
	return append([]Severity(nil), memberLadder[:2]...)
}

// MemberLadder returns the ordered severities a member can ever receive.
func MemberLadder() []Severity {
	return append([]Severity(nil), memberLadder...)
}

// Rank returns the ladder position of a severity, lowest first. Unknown
// severities report ok=false.
func Rank(s Severity) (int, bool) {
	rank, ok := severityRank[s]
	return rank, ok
}

// AvailableTeamSeverities computes which team sanctions can still be issued to
// teamID in setID. Without full scope the whole team ladder is returned: the
// caller cannot be filtered, only informed. A team never receives a second
// warning in the same set, so one recorded warning leaves only the point rung.
func AvailableTeamSeverities(history []Sanction, setID, teamID string) []Severity {
	if setID == "" || teamID == "" {
		return TeamLadder()
	}

	warnings := 0
	for _, s := range history {
		if s.Kind != KindTeam || s.TeamID != teamID || s.SetID != setID {
			continue
		}
		if s.Severity == SeverityWarning {
			warnings++
		}
	}

	if warnings >= 1 {
		return []Severity{SeverityPointAgainst}
	}

	return TeamLadder()
}

// AvailableMemberSeverities computes which member sanctions can still be
// issued to the given profile in setID. Unlike the team variant, a query with
// missing scope returns the empty set rather than the full ladder; callers
// must treat that as "cannot evaluate".
//
// A sanction counts toward the current scope when it is a game expulsion
// (match-wide) or was issued in the queried set. The highest rung reached
// among in-scope sanctions excludes itself and every rung below it.
func AvailableMemberSeverities(history []Sanction, setID, teamID, profileID string, role MemberRole) []Severity {
	if teamID == "" || profileID == "" || role == "" {
		return []Severity{}
	}

	floor := -1
	for _, s := range history {
		if s.TeamID != teamID || !s.targetsMember(profileID, role) {
			continue
		}
		if s.Severity != SeverityGameExpulsion && s.SetID != setID {
			continue
		}
		if rank, ok := severityRank[s.Severity]; ok && rank > floor {
			floor = rank
		}
	}

	available := make([]Severity, 0, len(memberLadder))
	for rank, severity := range memberLadder {
		if rank > floor {
			available = append(available, severity)
		}
	}

	return available
}

// MostRecentMemberSanction returns the last sanction recorded against the
// member within the requested scope, in append order. ScopeGame ignores setID
// entirely; ScopeSet requires one.
func MostRecentMemberSanction(history []Sanction, setID, teamID, profileID string, role MemberRole, scope Scope) (Sanction, bool) {
	if teamID == "" || profileID == "" {
		return Sanction{}, false
	}
	if scope == ScopeSet && setID == "" {
		return Sanction{}, false
	}

	for i := len(history) - 1; i >= 0; i-- {
		s := history[i]
		if s.TeamID != teamID || !s.targetsMember(profileID, role) {
			continue
		}
		if scope == ScopeSet && s.SetID != setID {
			continue
		}
		return s, true
	}

	return Sanction{}, false
}
