package standings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goolstar/goolstar-api/models"
)

// ErrInsufficientCandidates signals a partial best-loser fill: fewer
// eligible teams exist than slots to cover. The returned ranking is
// still valid; the caller decides how to handle the short fill.
var ErrInsufficientCandidates = errors.New("not enough best-loser candidates")

// SelectBestLosers picks the team ranked at position rank (1-based)
// from every group table and orders them cross-group with the base
// comparator. Head-to-head is not computable across groups, so the
// chain degrades to points, goal difference, goals for, team id.
//
// When fewer candidates than slots exist the available ranking is
// returned together with an error wrapping ErrInsufficientCandidates.
func SelectBestLosers(tables map[string][]*models.TeamStanding, rank, slots int) ([]*models.BestLoser, error) {
	if rank < 1 {
		return nil, fmt.Errorf("best-loser rank must be positive, got %d", rank)
	}
	if slots < 0 {
		return nil, fmt.Errorf("best-loser slot count must not be negative, got %d", slots)
	}

	candidates := make([]*models.TeamStanding, 0, len(tables))
	groupOf := make(map[int]string, len(tables))
	for code, table := range tables {
		if len(table) < rank {
			continue
		}
		row := table[rank-1]
		candidates = append(candidates, row)
		groupOf[row.TeamID] = code
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Less(candidates[i], candidates[j])
	})

	losers := make([]*models.BestLoser, 0, len(candidates))
	for i, row := range candidates {
		losers = append(losers, &models.BestLoser{
			TournamentID:   row.TournamentID,
			GroupCode:      groupOf[row.TeamID],
			TeamID:         row.TeamID,
			Points:         row.Points,
			GoalDifference: row.GoalDifference,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			CrossGroupRank: i + 1,
			Team:           row.Team,
		})
	}

	if len(losers) < slots {
		return losers, fmt.Errorf("%w: need %d, found %d", ErrInsufficientCandidates, slots, len(losers))
	}
	if slots < len(losers) {
		losers = losers[:slots]
	}
	return losers, nil
}
