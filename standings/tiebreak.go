package standings

import (
	"sort"

	"github.com/goolstar/goolstar-api/models"
)

// Less is the base comparator: points desc, goal difference desc,
// goals for desc, team id asc. It defines a total order: for any two
// distinct teams exactly one ranks above the other, because the final
// team-id key never ties.
func Less(a, b *models.TeamStanding) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamID < b.TeamID
}

// HeadToHead answers "who took more points off whom" from a match set.
type HeadToHead struct {
	points map[[2]int]int
}

// NewHeadToHead indexes completed matches by team pair.
func NewHeadToHead(matches []*models.Match) *HeadToHead {
	h := &HeadToHead{points: make(map[[2]int]int)}
	for _, m := range matches {
		if m == nil || !m.Completed {
			continue
		}
		switch {
		case m.HomeGoals > m.AwayGoals:
			h.points[[2]int{m.HomeTeamID, m.AwayTeamID}] += 3
		case m.AwayGoals > m.HomeGoals:
			h.points[[2]int{m.AwayTeamID, m.HomeTeamID}] += 3
		default:
			h.points[[2]int{m.HomeTeamID, m.AwayTeamID}]++
			h.points[[2]int{m.AwayTeamID, m.HomeTeamID}]++
		}
	}
	return h
}

// Better reports whether team a beat team b across their meetings.
// Returns false for pairs that never met or finished level, leaving
// the decision to the next tie-break key.
func (h *HeadToHead) Better(a, b int) bool {
	return h.points[[2]int{a, b}] > h.points[[2]int{b, a}]
}

// SortStrict orders rows with the full tie-break chain: points, goal
// difference, goals for, head-to-head where the two teams' meetings
// are decisive, then ascending team id. Used where a strict ranking
// matters (last qualification slot). Idempotent for a given input.
func SortStrict(rows []*models.TeamStanding, matches []*models.Match) {
	h := NewHeadToHead(matches)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if h.Better(a.TeamID, b.TeamID) {
			return true
		}
		if h.Better(b.TeamID, a.TeamID) {
			return false
		}
		return a.TeamID < b.TeamID
	})
}
