package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/models"
)

type teamFixture struct {
	svc         TeamService
	teams       *fakeTeamRepo
	tournaments *fakeTournamentRepo
	players     *fakePlayerRepo
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()
	f := &teamFixture{
		teams:       newFakeTeamRepo(),
		tournaments: newFakeTournamentRepo(),
		players:     newFakePlayerRepo(),
	}
	f.svc = NewTeamService(f.teams, f.tournaments, f.players, nil)
	return f
}

func TestCreateTeamRegistersDuringRegistration(t *testing.T) {
	f := newTeamFixture(t)
	f.tournaments.add(&models.Tournament{
		ID: 1, Name: "Winter Cup", CategoryID: 3, Stage: models.StageRegistration,
	})

	got, err := f.svc.Create(context.Background(), TeamInput{Name: "Atlético Norte", TournamentID: 1})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.True(t, got.Active)
	assert.Equal(t, 3, got.CategoryID)

	_, err = f.svc.Create(context.Background(), TeamInput{TournamentID: 1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.Create(context.Background(), TeamInput{Name: "X", TournamentID: 9})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateTeamRejectedAfterRegistration(t *testing.T) {
	f := newTeamFixture(t)
	f.tournaments.add(&models.Tournament{
		ID: 1, Name: "Winter Cup", CategoryID: 3, Stage: models.StageGroups,
	})

	_, err := f.svc.Create(context.Background(), TeamInput{Name: "Atlético Norte", TournamentID: 1})
	assert.ErrorIs(t, err, ErrStageTransitionInvalid)
}

func TestGetTeamIncludesRoster(t *testing.T) {
	f := newTeamFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	f.players.add(&models.Player{ID: 1, TeamID: 1, FirstName: "Luis", LastName: "Mora"})
	f.players.add(&models.Player{ID: 2, TeamID: 1, FirstName: "Iván", LastName: "Rojas"})
	f.players.add(&models.Player{ID: 3, TeamID: 2, FirstName: "Otro", LastName: "Equipo"})

	got, err := f.svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got.Players, 2)

	_, err = f.svc.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTeamGuards(t *testing.T) {
	f := newTeamFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	f.teams.add(&models.Team{ID: 2, Name: "Los Vetados", TournamentID: 1, ExcludedByAbsence: true})

	inactive := false
	got, err := f.svc.Update(context.Background(), 1, TeamUpdateInput{Name: "Atlético Renombrado", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Atlético Renombrado", got.Name)
	assert.False(t, got.Active)

	// An excluded team stays frozen.
	_, err = f.svc.Update(context.Background(), 2, TeamUpdateInput{Name: "Nuevo Nombre"})
	assert.ErrorIs(t, err, ErrTeamExcluded)
}
