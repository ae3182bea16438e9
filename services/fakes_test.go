package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/standings"
)

// In-memory repository fakes. They mirror the sentinel errors of the
// postgres implementations so the services under test exercise the
// same error paths.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newMockDB returns a database handle whose only job is to hand out
// transactions; the repositories are faked at the interface level.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) add(team *models.Team) *models.Team {
	r.teams[team.ID] = team
	return team
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *team
	return &cp, nil
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, tournamentID int, groupCode *string, activeOnly bool) ([]*models.Team, error) {
	var out []*models.Team
	for _, team := range r.teams {
		if team.TournamentID != tournamentID {
			continue
		}
		if groupCode != nil && team.GroupCode != *groupCode {
			continue
		}
		if activeOnly && !team.Active {
			continue
		}
		cp := *team
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateGroupCode(_ context.Context, _ repositories.SQLExecutor, id int, groupCode string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.GroupCode = groupCode
	return nil
}

func (r *fakeTeamRepo) UpdateProgress(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) add(match *models.Match) *models.Match {
	if match.ID == 0 {
		r.nextID++
		match.ID = r.nextID
	} else if match.ID > r.nextID {
		r.nextID = match.ID
	}
	r.matches[match.ID] = match
	return match
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.nextID++
	match.ID = r.nextID
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *match
	return &cp, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if filter.GroupStage && m.PhaseID != nil {
			continue
		}
		if filter.PhaseID != nil && (m.PhaseID == nil || *m.PhaseID != *filter.PhaseID) {
			continue
		}
		if filter.MatchDay != nil && (m.MatchDay == nil || *m.MatchDay != *filter.MatchDay) {
			continue
		}
		if filter.TeamID != nil && !m.Involves(*filter.TeamID) {
			continue
		}
		if filter.Completed != nil && m.Completed != *filter.Completed {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *fakeMatchRepo) ListCompletedByTeam(_ context.Context, _ repositories.SQLExecutor, teamID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if !m.Completed || !m.Involves(teamID) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) Complete(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	stored, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if stored.Completed {
		return repositories.ErrMatchNotFound
	}
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) UpdateRefereePaid(_ context.Context, _ repositories.SQLExecutor, id int, homePaid, awayPaid bool) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.HomeRefereePaid = homePaid
	match.AwayRefereePaid = awayPaid
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	match, ok := r.matches[id]
	if !ok || match.Completed {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player)}
}

func (r *fakePlayerRepo) add(player *models.Player) *models.Player {
	r.players[player.ID] = player
	return player
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.ID = len(r.players) + 1
	r.players[player.ID] = player
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *player
	return &cp, nil
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.players {
		if p.TeamID != teamID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) UpdateSuspension(_ context.Context, _ repositories.SQLExecutor, id int, suspended bool, matchesRemaining int) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Suspended = suspended
	player.SuspensionMatchesRemaining = matchesRemaining
	return nil
}

func (r *fakePlayerRepo) UpdatePhotoKey(_ context.Context, id int, photoKey *string) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.PhotoKey = photoKey
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeGoalRepo struct {
	goals []*models.Goal
}

func (r *fakeGoalRepo) Create(_ context.Context, _ repositories.SQLExecutor, goal *models.Goal) error {
	goal.ID = len(r.goals) + 1
	cp := *goal
	r.goals = append(r.goals, &cp)
	return nil
}

func (r *fakeGoalRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.Goal, error) {
	var out []*models.Goal
	for _, g := range r.goals {
		if g.MatchID == matchID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) CountByPlayer(_ context.Context, _ int) ([]*models.ScorerEntry, error) {
	return nil, nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	for i, g := range r.goals {
		if g.ID == id {
			r.goals = append(r.goals[:i], r.goals[i+1:]...)
			return nil
		}
	}
	return repositories.ErrGoalNotFound
}

func (r *fakeGoalRepo) DeleteByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	kept := r.goals[:0]
	for _, g := range r.goals {
		if g.MatchID != matchID {
			kept = append(kept, g)
		}
	}
	r.goals = kept
	return nil
}

// fakeCardRepo needs the player-to-team mapping to aggregate tallies
// the way the SQL join does.
type fakeCardRepo struct {
	cards      []*models.Card
	playerTeam map[int]int
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{playerTeam: make(map[int]int)}
}

func (r *fakeCardRepo) add(card *models.Card) *models.Card {
	if card.ID == 0 {
		card.ID = len(r.cards) + 1
	}
	r.cards = append(r.cards, card)
	return card
}

func (r *fakeCardRepo) Create(_ context.Context, _ repositories.SQLExecutor, card *models.Card) error {
	card.ID = len(r.cards) + 1
	cp := *card
	r.cards = append(r.cards, &cp)
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, id int) (*models.Card, error) {
	for _, c := range r.cards {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrCardNotFound
}

func (r *fakeCardRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.Card, error) {
	var out []*models.Card
	for _, c := range r.cards {
		if c.MatchID == matchID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) ListByPlayer(_ context.Context, _ repositories.SQLExecutor, playerID int) ([]*models.Card, error) {
	var out []*models.Card
	for _, c := range r.cards {
		if c.PlayerID == playerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) ListUnpaidByTeam(_ context.Context, teamID int) ([]*models.Card, error) {
	var out []*models.Card
	for _, c := range r.cards {
		if !c.Paid && c.FineAmount > 0 && r.playerTeam[c.PlayerID] == teamID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) TallyByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) (map[int]standings.CardTally, error) {
	tallies := make(map[int]standings.CardTally)
	for _, c := range r.cards {
		teamID, ok := r.playerTeam[c.PlayerID]
		if !ok {
			continue
		}
		tally := tallies[teamID]
		switch c.Type {
		case models.CardYellow:
			tally.Yellow++
		case models.CardRed:
			tally.Red++
		}
		tallies[teamID] = tally
	}
	return tallies, nil
}

func (r *fakeCardRepo) MarkPaid(_ context.Context, _ repositories.SQLExecutor, id int, paidAt time.Time) error {
	for _, c := range r.cards {
		if c.ID == id {
			if c.Paid {
				return repositories.ErrCardNotFound
			}
			c.Paid = true
			c.PaidAt = &paidAt
			return nil
		}
	}
	return repositories.ErrCardNotFound
}

func (r *fakeCardRepo) MarkSuspensionServed(_ context.Context, _ repositories.SQLExecutor, ids []int) error {
	for _, id := range ids {
		for _, c := range r.cards {
			if c.ID == id {
				c.SuspensionServed = true
			}
		}
	}
	return nil
}

func (r *fakeCardRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	for i, c := range r.cards {
		if c.ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return repositories.ErrCardNotFound
}

type fakeLineupRepo struct {
	entries map[[2]int][]*models.LineupEntry
}

func newFakeLineupRepo() *fakeLineupRepo {
	return &fakeLineupRepo{entries: make(map[[2]int][]*models.LineupEntry)}
}

func (r *fakeLineupRepo) ReplaceForTeam(_ context.Context, _ repositories.SQLExecutor, matchID, teamID int, entries []*models.LineupEntry) error {
	r.entries[[2]int{matchID, teamID}] = entries
	return nil
}

func (r *fakeLineupRepo) ListByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.LineupEntry, error) {
	var out []*models.LineupEntry
	for key, entries := range r.entries {
		if key[0] == matchID {
			out = append(out, entries...)
		}
	}
	return out, nil
}

type fakeStandingRepo struct {
	rows map[int][]*models.TeamStanding
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{rows: make(map[int][]*models.TeamStanding)}
}

func (r *fakeStandingRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, standing *models.TeamStanding) error {
	rows := r.rows[standing.TournamentID]
	for i, row := range rows {
		if row.TeamID == standing.TeamID {
			rows[i] = standing
			return nil
		}
	}
	r.rows[standing.TournamentID] = append(rows, standing)
	return nil
}

func (r *fakeStandingRepo) ReplaceForTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, rows []*models.TeamStanding) error {
	r.rows[tournamentID] = rows
	return nil
}

func (r *fakeStandingRepo) ListByTournament(_ context.Context, tournamentID int, groupCode *string) ([]*models.TeamStanding, error) {
	var out []*models.TeamStanding
	for _, row := range r.rows[tournamentID] {
		if groupCode != nil && row.GroupCode != *groupCode {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeStandingRepo) GetByTeam(_ context.Context, _ repositories.SQLExecutor, tournamentID, teamID int) (*models.TeamStanding, error) {
	for _, row := range r.rows[tournamentID] {
		if row.TeamID == teamID {
			return row, nil
		}
	}
	return nil, repositories.ErrStandingNotFound
}

type fakePhaseRepo struct {
	nextPhaseID int
	nextSlotID  int
	phases      map[int]*models.Phase
	slots       map[int]*models.BracketSlot
	bestLosers  map[int][]*models.BestLoser
}

func newFakePhaseRepo() *fakePhaseRepo {
	return &fakePhaseRepo{
		phases:     make(map[int]*models.Phase),
		slots:      make(map[int]*models.BracketSlot),
		bestLosers: make(map[int][]*models.BestLoser),
	}
}

func (r *fakePhaseRepo) addPhase(phase *models.Phase) *models.Phase {
	if phase.ID == 0 {
		r.nextPhaseID++
		phase.ID = r.nextPhaseID
	} else if phase.ID > r.nextPhaseID {
		r.nextPhaseID = phase.ID
	}
	r.phases[phase.ID] = phase
	return phase
}

func (r *fakePhaseRepo) addSlot(slot *models.BracketSlot) *models.BracketSlot {
	if slot.ID == 0 {
		r.nextSlotID++
		slot.ID = r.nextSlotID
	} else if slot.ID > r.nextSlotID {
		r.nextSlotID = slot.ID
	}
	r.slots[slot.ID] = slot
	return slot
}

func (r *fakePhaseRepo) Create(_ context.Context, _ repositories.SQLExecutor, phase *models.Phase) error {
	for _, p := range r.phases {
		if p.TournamentID == phase.TournamentID && p.Order == phase.Order {
			return repositories.ErrPhaseOrderTaken
		}
	}
	r.nextPhaseID++
	phase.ID = r.nextPhaseID
	cp := *phase
	r.phases[phase.ID] = &cp
	return nil
}

func (r *fakePhaseRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Phase, error) {
	phase, ok := r.phases[id]
	if !ok {
		return nil, repositories.ErrPhaseNotFound
	}
	cp := *phase
	return &cp, nil
}

func (r *fakePhaseRepo) GetByOrder(_ context.Context, _ repositories.SQLExecutor, tournamentID, order int) (*models.Phase, error) {
	for _, p := range r.phases {
		if p.TournamentID == tournamentID && p.Order == order {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPhaseNotFound
}

func (r *fakePhaseRepo) ListByTournament(_ context.Context, tournamentID int) ([]*models.Phase, error) {
	var out []*models.Phase
	for _, p := range r.phases {
		if p.TournamentID == tournamentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakePhaseRepo) UpdateState(_ context.Context, _ repositories.SQLExecutor, id int, state models.PhaseState) error {
	phase, ok := r.phases[id]
	if !ok {
		return repositories.ErrPhaseNotFound
	}
	phase.State = state
	return nil
}

func (r *fakePhaseRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	phase, ok := r.phases[id]
	if !ok || phase.State != models.PhasePending {
		return repositories.ErrPhaseNotFound
	}
	delete(r.phases, id)
	return nil
}

func (r *fakePhaseRepo) CreateSlot(_ context.Context, _ repositories.SQLExecutor, slot *models.BracketSlot) error {
	r.nextSlotID++
	slot.ID = r.nextSlotID
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakePhaseRepo) GetSlotByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) (*models.BracketSlot, error) {
	for _, s := range r.slots {
		if s.MatchID != nil && *s.MatchID == matchID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrBracketSlotNotFound
}

func (r *fakePhaseRepo) ListSlots(_ context.Context, _ repositories.SQLExecutor, phaseID int) ([]*models.BracketSlot, error) {
	var out []*models.BracketSlot
	for _, s := range r.slots {
		if s.PhaseID == phaseID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out, nil
}

func (r *fakePhaseRepo) UpdateSlotTeams(_ context.Context, _ repositories.SQLExecutor, slotID int, homeTeamID, awayTeamID *int) error {
	slot, ok := r.slots[slotID]
	if !ok {
		return repositories.ErrBracketSlotNotFound
	}
	slot.HomeTeamID = homeTeamID
	slot.AwayTeamID = awayTeamID
	return nil
}

func (r *fakePhaseRepo) UpdateSlotMatch(_ context.Context, _ repositories.SQLExecutor, slotID int, matchID *int) error {
	slot, ok := r.slots[slotID]
	if !ok {
		return repositories.ErrBracketSlotNotFound
	}
	slot.MatchID = matchID
	return nil
}

func (r *fakePhaseRepo) CompleteSlot(_ context.Context, _ repositories.SQLExecutor, slotID int) error {
	slot, ok := r.slots[slotID]
	if !ok {
		return repositories.ErrBracketSlotNotFound
	}
	slot.Completed = true
	return nil
}

func (r *fakePhaseRepo) ReplaceBestLosers(_ context.Context, _ repositories.SQLExecutor, tournamentID int, losers []*models.BestLoser) error {
	r.bestLosers[tournamentID] = losers
	return nil
}

func (r *fakePhaseRepo) ListBestLosers(_ context.Context, tournamentID int) ([]*models.BestLoser, error) {
	return r.bestLosers[tournamentID], nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) add(t *models.Tournament) *models.Tournament {
	r.tournaments[t.ID] = t
	return t
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = len(r.tournaments) + 1
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, stage *models.TournamentStage) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range r.tournaments {
		if stage != nil && t.Stage != *stage {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) UpdateStage(_ context.Context, _ repositories.SQLExecutor, id int, stage models.TournamentStage) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Stage = stage
	return nil
}

func (r *fakeTournamentRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = logoKey
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[int]*models.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int]*models.Category)}
}

func (r *fakeCategoryRepo) add(c *models.Category) *models.Category {
	r.categories[c.ID] = c
	return c
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *models.Category) error {
	c.ID = len(r.categories) + 1
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range r.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *models.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return repositories.ErrCategoryNotFound
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	c, ok := r.categories[id]
	if !ok {
		return repositories.ErrCategoryNotFound
	}
	c.LogoKey = logoKey
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.categories[id]; !ok {
		return repositories.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

type fakeTransactionRepo struct {
	transactions []*models.Transaction
	payments     []*models.RefereePayment
}

func (r *fakeTransactionRepo) Create(_ context.Context, _ repositories.SQLExecutor, tx *models.Transaction) error {
	tx.ID = len(r.transactions) + 1
	cp := *tx
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id int) (*models.Transaction, error) {
	for _, tx := range r.transactions {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r *fakeTransactionRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].TeamID == teamID {
			cp := *r.transactions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) TeamBalance(_ context.Context, teamID int) (*models.TeamBalance, error) {
	balance := &models.TeamBalance{TeamID: teamID, ByType: make(map[string]int64)}
	for _, tx := range r.transactions {
		if tx.TeamID != teamID {
			continue
		}
		if tx.Credit {
			balance.Credits += tx.Amount
			balance.ByType[string(tx.Type)] += tx.Amount
		} else {
			balance.Debits += tx.Amount
			balance.ByType[string(tx.Type)] -= tx.Amount
		}
	}
	balance.Balance = balance.Credits - balance.Debits
	return balance, nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id int) error {
	for i, tx := range r.transactions {
		if tx.ID == id {
			if tx.Automatic {
				return repositories.ErrTransactionNotFound
			}
			r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTransactionNotFound
}

func (r *fakeTransactionRepo) CreateRefereePayment(_ context.Context, _ repositories.SQLExecutor, payment *models.RefereePayment) error {
	payment.ID = len(r.payments) + 1
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakeTransactionRepo) ListRefereePayments(_ context.Context, refereeID int, unpaidOnly bool) ([]*models.RefereePayment, error) {
	var out []*models.RefereePayment
	for _, p := range r.payments {
		if p.RefereeID != refereeID {
			continue
		}
		if unpaidOnly && p.Paid {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTransactionRepo) MarkRefereePaymentPaid(_ context.Context, _ repositories.SQLExecutor, id int, paidAt time.Time) error {
	for _, p := range r.payments {
		if p.ID == id {
			if p.Paid {
				return repositories.ErrRefereePaymentNotFound
			}
			p.Paid = true
			p.PaidAt = &paidAt
			return nil
		}
	}
	return repositories.ErrRefereePaymentNotFound
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(r.users) + 1
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type publishedEvent struct {
	tournamentID int
	event        interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(tournamentID int, event interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{tournamentID: tournamentID, event: event})
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *fakePublisher) eventType(i int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i >= len(p.events) {
		return ""
	}
	if m, ok := p.events[i].event.(map[string]interface{}); ok {
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return ""
}
