package standings

import (
	"sort"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
)

// EligibilityStatus is the derived suspension state of a player.
type EligibilityStatus struct {
	Eligible         bool `json:"eligible"`
	MatchesRemaining int  `json:"matches_remaining"`
	PendingYellows   int  `json:"pending_yellows"`
}

// EligibilityTracker replays a player's disciplinary history against
// the team's completed matches.
type EligibilityTracker struct {
	rules config.Rules
}

func NewEligibilityTracker(rules config.Rules) *EligibilityTracker {
	return &EligibilityTracker{rules: rules}
}

// Replay computes the player's current state from scratch.
//
// Completed team matches are processed in kickoff order. A suspended
// player sits out the match first (one suspension match served per
// completed team match, whether or not the player appears anywhere).
// Cards the player received in a match are applied after it: yellows
// accumulate until the configured limit converts them into a one-match
// suspension and resets the counter; a red card sets the suspension to
// the configured match count outright.
//
// Cards attached to matches missing from teamMatches (typically a
// fixture not yet completed) are ignored; they enter the state once
// their match completes.
func (t *EligibilityTracker) Replay(playerID int, cards []*models.Card, teamMatches []*models.Match) EligibilityStatus {
	completed := make([]*models.Match, 0, len(teamMatches))
	for _, m := range teamMatches {
		if m != nil && m.Completed {
			completed = append(completed, m)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		if completed[i].KickoffAt.Equal(completed[j].KickoffAt) {
			return completed[i].ID < completed[j].ID
		}
		return completed[i].KickoffAt.Before(completed[j].KickoffAt)
	})

	cardsByMatch := make(map[int][]*models.Card)
	for _, c := range cards {
		if c == nil || c.PlayerID != playerID {
			continue
		}
		cardsByMatch[c.MatchID] = append(cardsByMatch[c.MatchID], c)
	}

	var remaining, yellows int
	for _, m := range completed {
		if remaining > 0 {
			remaining--
			continue
		}
		for _, c := range cardsByMatch[m.ID] {
			switch c.Type {
			case models.CardRed:
				remaining = t.rules.RedCardSuspensionMatches
				yellows = 0
			case models.CardYellow:
				yellows++
				if t.rules.YellowCardLimit > 0 && yellows >= t.rules.YellowCardLimit {
					if remaining < 1 {
						remaining = 1
					}
					yellows = 0
				}
			}
		}
	}

	return EligibilityStatus{
		Eligible:         remaining == 0,
		MatchesRemaining: remaining,
		PendingYellows:   yellows,
	}
}
