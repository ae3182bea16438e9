package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/models"
)

type tournamentFixture struct {
	svc         TournamentService
	mockTx      func()
	tournaments *fakeTournamentRepo
	categories  *fakeCategoryRepo
	teams       *fakeTeamRepo
	matches     *fakeMatchRepo
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()
	db, mock := newMockDB(t)
	f := &tournamentFixture{
		tournaments: newFakeTournamentRepo(),
		categories:  newFakeCategoryRepo(),
		teams:       newFakeTeamRepo(),
		matches:     newFakeMatchRepo(),
	}
	f.svc = NewTournamentService(
		db, f.tournaments, f.categories, f.teams, f.matches,
		newFakeCardRepo(), &fakeGoalRepo{}, nil, testLogger(),
	)
	f.mockTx = func() { expectTx(mock) }
	return f
}

func (f *tournamentFixture) seedRegistration(teamCount, groupCount int) *models.Tournament {
	f.categories.add(&models.Category{ID: 1, Name: "Open"})
	tournament := f.tournaments.add(&models.Tournament{
		ID:         1,
		Name:       "Winter Cup",
		CategoryID: 1,
		Stage:      models.StageRegistration,
		GroupCount: groupCount,
	})
	for i := 1; i <= teamCount; i++ {
		f.teams.add(&models.Team{
			ID:           i,
			Name:         fmt.Sprintf("Team %d", i),
			TournamentID: 1,
			Active:       true,
		})
	}
	return tournament
}

func TestCreateTournament(t *testing.T) {
	f := newTournamentFixture(t)
	f.categories.add(&models.Category{ID: 1, Name: "Open"})

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := f.svc.Create(context.Background(), 9, TournamentInput{
		Name:       "Winter Cup",
		CategoryID: 1,
		StartDate:  start,
		GroupCount: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageRegistration, got.Stage)
	assert.Equal(t, 9, got.OrganizerID)
	assert.NotZero(t, got.ID)
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newTournamentFixture(t)
	f.categories.add(&models.Category{ID: 1, Name: "Open"})
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		input TournamentInput
	}{
		{"missing name", TournamentInput{CategoryID: 1, StartDate: start}},
		{"missing category", TournamentInput{Name: "Cup", StartDate: start}},
		{"missing start date", TournamentInput{Name: "Cup", CategoryID: 1}},
		{"end before start", TournamentInput{Name: "Cup", CategoryID: 1, StartDate: start, EndDate: &start}},
		{"too many groups", TournamentInput{Name: "Cup", CategoryID: 1, StartDate: start, GroupCount: 27}},
		{"unknown category", TournamentInput{Name: "Cup", CategoryID: 5, StartDate: start}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), 9, tc.input)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestDrawGroupsSnakesAcrossGroups(t *testing.T) {
	f := newTournamentFixture(t)
	f.seedRegistration(6, 2)
	f.mockTx()

	teams, err := f.svc.DrawGroups(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, teams, 6)

	// Registration order snakes A, B, B, A, A, B.
	want := []string{"A", "B", "B", "A", "A", "B"}
	for i, team := range teams {
		assert.Equal(t, want[i], team.GroupCode, "team %d", team.ID)
	}

	stored, err := f.teams.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.GroupCode)

	tournament, err := f.tournaments.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StageGroups, tournament.Stage)
}

func TestDrawGroupsGuards(t *testing.T) {
	f := newTournamentFixture(t)
	tournament := f.seedRegistration(1, 2)

	// Fewer teams than groups.
	_, err := f.svc.DrawGroups(context.Background(), 1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Draw is a registration-only move.
	tournament.Stage = models.StageGroups
	require.NoError(t, f.tournaments.Update(context.Background(), tournament))
	_, err = f.svc.DrawGroups(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStageTransitionInvalid)
}

func TestUpdateStageTransitions(t *testing.T) {
	f := newTournamentFixture(t)
	f.seedRegistration(4, 2)

	// Skipping the group stage is rejected.
	_, err := f.svc.UpdateStage(context.Background(), 1, models.StageKnockout)
	assert.ErrorIs(t, err, ErrStageTransitionInvalid)

	got, err := f.svc.UpdateStage(context.Background(), 1, models.StageGroups)
	require.NoError(t, err)
	assert.Equal(t, models.StageGroups, got.Stage)

	// A pending group match blocks the knockout.
	pending := f.matches.add(&models.Match{
		ID: 1, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
	})
	_, err = f.svc.UpdateStage(context.Background(), 1, models.StageGroups)
	require.NoError(t, err)
	_, err = f.svc.UpdateStage(context.Background(), 1, models.StageKnockout)
	assert.ErrorIs(t, err, ErrGroupStageUnfinished)

	pending.Completed = true
	got, err = f.svc.UpdateStage(context.Background(), 1, models.StageKnockout)
	require.NoError(t, err)
	assert.Equal(t, models.StageKnockout, got.Stage)

	// Finished is terminal.
	_, err = f.svc.UpdateStage(context.Background(), 1, models.StageFinished)
	require.NoError(t, err)
	_, err = f.svc.UpdateStage(context.Background(), 1, models.StageCanceled)
	assert.ErrorIs(t, err, ErrStageTransitionInvalid)
}

func TestUpdateRejectsGroupChangeAfterDraw(t *testing.T) {
	f := newTournamentFixture(t)
	f.seedRegistration(6, 2)
	f.mockTx()

	_, err := f.svc.DrawGroups(context.Background(), 1)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), 1, TournamentInput{
		Name:       "Winter Cup",
		CategoryID: 1,
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		GroupCount: 3,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestTournamentStats(t *testing.T) {
	f := newTournamentFixture(t)
	f.seedRegistration(4, 2)
	kickoff := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	f.matches.add(&models.Match{
		ID: 1, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: kickoff, Completed: true, HomeGoals: 3, AwayGoals: 1,
	})
	f.matches.add(&models.Match{
		ID: 2, TournamentID: 1, HomeTeamID: 3, AwayTeamID: 4,
		KickoffAt: kickoff.Add(time.Hour),
	})

	stats, err := f.svc.Stats(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TeamCount)
	assert.Equal(t, 1, stats.MatchesPlayed)
	assert.Equal(t, 1, stats.MatchesPending)
	assert.Equal(t, 4, stats.GoalsScored)
}

func TestAssignGroupCodes(t *testing.T) {
	teams := make([]*models.Team, 7)
	for i := range teams {
		teams[i] = &models.Team{ID: i + 1}
	}
	assignGroupCodes(teams, 3)

	want := []string{"A", "B", "C", "C", "B", "A", "A"}
	for i, team := range teams {
		assert.Equal(t, want[i], team.GroupCode, "position %d", i)
	}
}
