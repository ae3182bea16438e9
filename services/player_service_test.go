package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
)

type playerFixture struct {
	svc     PlayerService
	players *fakePlayerRepo
	teams   *fakeTeamRepo
	cards   *fakeCardRepo
	matches *fakeMatchRepo
}

func newPlayerFixture(t *testing.T) *playerFixture {
	t.Helper()
	f := &playerFixture{
		players: newFakePlayerRepo(),
		teams:   newFakeTeamRepo(),
		cards:   newFakeCardRepo(),
		matches: newFakeMatchRepo(),
	}
	f.svc = NewPlayerService(
		f.players, f.teams, f.cards, f.matches,
		newFakeCategoryRepo(), config.DefaultRules(), nil,
	)
	return f
}

func TestCreatePlayer(t *testing.T) {
	f := newPlayerFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})

	got, err := f.svc.Create(context.Background(), PlayerInput{
		TeamID: 1, FirstName: "Luis", LastName: "Mora",
		Document: "1104567890", JerseyNumber: 10,
	})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Luis Mora", got.FullName())

	_, err = f.svc.Create(context.Background(), PlayerInput{
		TeamID: 1, FirstName: "Luis", Document: "x",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.Create(context.Background(), PlayerInput{
		TeamID: 9, FirstName: "Luis", Document: "x", JerseyNumber: 4,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	f.teams.add(&models.Team{ID: 2, Name: "Los Vetados", TournamentID: 1, ExcludedByAbsence: true})
	_, err = f.svc.Create(context.Background(), PlayerInput{
		TeamID: 2, FirstName: "Luis", Document: "x", JerseyNumber: 4,
	})
	assert.ErrorIs(t, err, ErrTeamExcluded)
}

func TestUpdatePlayerKeepsTeam(t *testing.T) {
	f := newPlayerFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	f.players.add(&models.Player{ID: 1, TeamID: 1, FirstName: "Luis", LastName: "Mora", Document: "1104567890", JerseyNumber: 10})

	_, err := f.svc.Update(context.Background(), 1, PlayerInput{
		TeamID: 2, FirstName: "Luis", Document: "1104567890", JerseyNumber: 10,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	got, err := f.svc.Update(context.Background(), 1, PlayerInput{
		TeamID: 1, FirstName: "Luis", LastName: "Mora Jr.", Document: "1104567890", JerseyNumber: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got.JerseyNumber)
}

// A red card suspends for two matches; each completed team match
// afterwards serves one of them.
func TestEligibilityReplaysDisciplinaryRecord(t *testing.T) {
	f := newPlayerFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	player := f.players.add(&models.Player{ID: 1, TeamID: 1, FirstName: "Luis", LastName: "Mora"})

	kickoff := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	sentOff := f.matches.add(&models.Match{
		ID: 1, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: kickoff, Completed: true, HomeGoals: 1,
	})
	f.cards.add(&models.Card{ID: 1, MatchID: sentOff.ID, PlayerID: player.ID, Type: models.CardRed})

	status, err := f.svc.Eligibility(context.Background(), player.ID)
	require.NoError(t, err)
	assert.False(t, status.Eligible)
	assert.Equal(t, 2, status.MatchesRemaining)

	// The persisted columns are synced to the replay.
	stored, err := f.players.GetByID(context.Background(), player.ID)
	require.NoError(t, err)
	assert.True(t, stored.Suspended)
	assert.Equal(t, 2, stored.SuspensionMatchesRemaining)

	// One match served.
	f.matches.add(&models.Match{
		ID: 2, TournamentID: 1, HomeTeamID: 2, AwayTeamID: 1,
		KickoffAt: kickoff.AddDate(0, 0, 7), Completed: true, AwayGoals: 2,
	})
	status, err = f.svc.Eligibility(context.Background(), player.ID)
	require.NoError(t, err)
	assert.False(t, status.Eligible)
	assert.Equal(t, 1, status.MatchesRemaining)

	// Fully served.
	f.matches.add(&models.Match{
		ID: 3, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: kickoff.AddDate(0, 0, 14), Completed: true,
	})
	status, err = f.svc.Eligibility(context.Background(), player.ID)
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	assert.Zero(t, status.MatchesRemaining)

	_, err = f.svc.Eligibility(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Three yellows across matches trigger a one-match suspension and
// reset the count.
func TestEligibilityYellowAccumulation(t *testing.T) {
	f := newPlayerFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	player := f.players.add(&models.Player{ID: 1, TeamID: 1, FirstName: "Luis", LastName: "Mora"})

	kickoff := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		match := f.matches.add(&models.Match{
			ID: i, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
			KickoffAt: kickoff.AddDate(0, 0, 7*i), Completed: true,
		})
		f.cards.add(&models.Card{ID: i, MatchID: match.ID, PlayerID: player.ID, Type: models.CardYellow})
	}

	status, err := f.svc.Eligibility(context.Background(), player.ID)
	require.NoError(t, err)
	assert.False(t, status.Eligible)
	assert.Equal(t, 1, status.MatchesRemaining)
	assert.Zero(t, status.PendingYellows)
}
