// Package standings holds the pure competition math: group tables,
// tie-break ordering, best-loser selection and player eligibility.
// Everything here computes from in-memory match history; persistence
// and transactions stay in the service layer.
package standings

import (
	"sort"
	"time"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
)

// CardTally is the per-team card count fed into a table build.
type CardTally struct {
	Yellow int
	Red    int
}

type Calculator struct {
	rules config.Rules
}

func NewCalculator(rules config.Rules) *Calculator {
	return &Calculator{rules: rules}
}

// BuildTable derives a ranked table from completed matches. Teams
// define the row set: a team with no completed matches still gets a
// zero row. Matches involving teams outside the set are skipped, which
// lets the caller pass a tournament-wide match list with a single
// group's teams. Cards may be nil.
//
// The result is ordered by points, goal difference, goals for; ties
// beyond that keep ascending team id. Re-running on the same input
// yields the same rows, so callers can rewrite persisted aggregates
// from source at any time.
func (c *Calculator) BuildTable(teams []*models.Team, matches []*models.Match, cards map[int]CardTally) []*models.TeamStanding {
	rows := make(map[int]*models.TeamStanding, len(teams))
	order := make([]int, 0, len(teams))
	for _, t := range teams {
		if t == nil {
			continue
		}
		if _, ok := rows[t.ID]; ok {
			continue
		}
		rows[t.ID] = &models.TeamStanding{
			TournamentID: t.TournamentID,
			TeamID:       t.ID,
			GroupCode:    t.GroupCode,
			Team:         t,
		}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if m == nil || !m.Completed {
			continue
		}
		home, haveHome := rows[m.HomeTeamID]
		away, haveAway := rows[m.AwayTeamID]
		if !haveHome || !haveAway {
			continue
		}
		c.applyMatch(home, away, m)
	}

	for teamID, tally := range cards {
		if row, ok := rows[teamID]; ok {
			row.YellowCards = tally.Yellow
			row.RedCards = tally.Red
		}
	}

	table := make([]*models.TeamStanding, 0, len(order))
	for _, id := range order {
		row := rows[id]
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		table = append(table, row)
	}

	Sort(table)
	now := time.Now()
	for i, row := range table {
		rank := i + 1
		row.Rank = &rank
		row.UpdatedAt = now
	}
	return table
}

func (c *Calculator) applyMatch(home, away *models.TeamStanding, m *models.Match) {
	home.Played++
	away.Played++
	home.GoalsFor += m.HomeGoals
	home.GoalsAgainst += m.AwayGoals
	away.GoalsFor += m.AwayGoals
	away.GoalsAgainst += m.HomeGoals

	// A fixture both teams missed is a defeat for both sides.
	if m.HomeAbsent && m.AwayAbsent {
		home.Lost++
		away.Lost++
		home.Points += c.rules.PointsLoss
		away.Points += c.rules.PointsLoss
		return
	}

	switch {
	case m.HomeGoals > m.AwayGoals:
		home.Won++
		away.Lost++
		home.Points += c.rules.PointsWin
		away.Points += c.rules.PointsLoss
	case m.AwayGoals > m.HomeGoals:
		away.Won++
		home.Lost++
		away.Points += c.rules.PointsWin
		home.Points += c.rules.PointsLoss
	default:
		home.Drawn++
		away.Drawn++
		home.Points += c.rules.PointsDraw
		away.Points += c.rules.PointsDraw
	}
}

// BuildGroupTables builds one ranked table per group code. Teams
// without a group are skipped.
func (c *Calculator) BuildGroupTables(teams []*models.Team, matches []*models.Match, cards map[int]CardTally) map[string][]*models.TeamStanding {
	byGroup := make(map[string][]*models.Team)
	for _, t := range teams {
		if t == nil || t.GroupCode == "" {
			continue
		}
		byGroup[t.GroupCode] = append(byGroup[t.GroupCode], t)
	}

	tables := make(map[string][]*models.TeamStanding, len(byGroup))
	for code, groupTeams := range byGroup {
		tables[code] = c.BuildTable(groupTeams, matches, cards)
	}
	return tables
}

// Sort orders rows by the base tie-break chain: points, goal
// difference, goals for, then ascending team id as the stable policy
// for unresolved ties.
func Sort(rows []*models.TeamStanding) {
	sort.SliceStable(rows, func(i, j int) bool {
		return Less(rows[i], rows[j])
	})
}
