package standings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
)

func team(id int, group string) *models.Team {
	return &models.Team{ID: id, TournamentID: 1, GroupCode: group, Name: "Team", Active: true}
}

func played(id, home, away, hg, ag int) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: 1,
		HomeTeamID:   home,
		AwayTeamID:   away,
		HomeGoals:    hg,
		AwayGoals:    ag,
		Completed:    true,
		KickoffAt:    time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour),
	}
}

func TestBuildTablePointsMatchOutcomes(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A"), team(3, "A")}
	matches := []*models.Match{
		played(1, 1, 2, 2, 0), // 1 beats 2
		played(2, 2, 3, 1, 1), // draw
		played(3, 3, 1, 0, 3), // 1 beats 3
	}

	table := calc.BuildTable(teams, matches, nil)
	require.Len(t, table, 3)

	byTeam := map[int]*models.TeamStanding{}
	for _, row := range table {
		byTeam[row.TeamID] = row
	}

	assert.Equal(t, 6, byTeam[1].Points)
	assert.Equal(t, 1, byTeam[2].Points)
	assert.Equal(t, 1, byTeam[3].Points)
	assert.Equal(t, 2, byTeam[1].Played)
	assert.Equal(t, 2, byTeam[1].Won)
	assert.Equal(t, 5, byTeam[1].GoalsFor)
	assert.Equal(t, 0, byTeam[1].GoalsAgainst)
	assert.Equal(t, 5, byTeam[1].GoalDifference)

	// Leader ranks first, rank fields are 1-based.
	assert.Equal(t, 1, table[0].TeamID)
	require.NotNil(t, table[0].Rank)
	assert.Equal(t, 1, *table[0].Rank)
}

func TestBuildTableIgnoresPendingAndForeignMatches(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A")}

	pending := played(1, 1, 2, 4, 0)
	pending.Completed = false
	foreign := played(2, 7, 8, 1, 0) // teams from another group

	table := calc.BuildTable(teams, []*models.Match{pending, foreign}, nil)
	require.Len(t, table, 2)
	for _, row := range table {
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
	}
}

func TestBuildTableIdempotent(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A"), team(3, "A"), team(4, "A")}
	matches := []*models.Match{
		played(1, 1, 2, 3, 1),
		played(2, 3, 4, 0, 0),
		played(3, 1, 3, 2, 2),
		played(4, 2, 4, 1, 5),
	}

	first := calc.BuildTable(teams, matches, nil)
	second := calc.BuildTable(teams, matches, nil)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].TeamID, second[i].TeamID)
		assert.Equal(t, first[i].Points, second[i].Points)
		assert.Equal(t, first[i].GoalDifference, second[i].GoalDifference)
	}
}

func TestBuildTableGoalDifferenceBreaksTie(t *testing.T) {
	// A and B both on 7 points (2W 1D); A has the better difference.
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A"), team(3, "A"), team(4, "A")}
	matches := []*models.Match{
		played(1, 1, 3, 2, 0),
		played(2, 1, 4, 2, 1),
		played(3, 1, 2, 1, 1),
		played(4, 2, 3, 2, 1),
		played(5, 2, 4, 1, 0),
	}

	table := calc.BuildTable(teams, matches, nil)
	byTeam := map[int]*models.TeamStanding{}
	for _, row := range table {
		byTeam[row.TeamID] = row
	}
	require.Equal(t, 7, byTeam[1].Points)
	require.Equal(t, 7, byTeam[2].Points)
	require.Greater(t, byTeam[1].GoalDifference, byTeam[2].GoalDifference)

	assert.Equal(t, 1, table[0].TeamID)
	assert.Equal(t, 2, table[1].TeamID)
}

func TestBuildTableDoubleAbsenceIsDoubleLoss(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A")}
	m := played(1, 1, 2, 0, 0)
	m.HomeAbsent = true
	m.AwayAbsent = true

	table := calc.BuildTable(teams, []*models.Match{m}, nil)
	for _, row := range table {
		assert.Equal(t, 1, row.Played)
		assert.Equal(t, 1, row.Lost)
		assert.Zero(t, row.Points)
		assert.Zero(t, row.Drawn)
	}
}

func TestBuildTableCardTallies(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A")}
	table := calc.BuildTable(teams, nil, map[int]CardTally{
		1: {Yellow: 4, Red: 1},
	})
	byTeam := map[int]*models.TeamStanding{}
	for _, row := range table {
		byTeam[row.TeamID] = row
	}
	assert.Equal(t, 4, byTeam[1].YellowCards)
	assert.Equal(t, 1, byTeam[1].RedCards)
	assert.Zero(t, byTeam[2].YellowCards)
}

func TestBuildGroupTables(t *testing.T) {
	calc := NewCalculator(config.DefaultRules())
	teams := []*models.Team{team(1, "A"), team(2, "A"), team(3, "B"), team(4, "B"), team(5, "")}
	matches := []*models.Match{
		played(1, 1, 2, 1, 0),
		played(2, 3, 4, 2, 2),
	}

	tables := calc.BuildGroupTables(teams, matches, nil)
	require.Len(t, tables, 2)
	require.Len(t, tables["A"], 2)
	require.Len(t, tables["B"], 2)
	assert.Equal(t, 1, tables["A"][0].TeamID)
	assert.Equal(t, 3, tables["A"][0].Points)
}
