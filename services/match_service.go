package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/standings"
)

// EventPublisher pushes tournament events to connected spectators.
type EventPublisher interface {
	Publish(tournamentID int, event interface{})
}

type MatchService interface {
	Schedule(ctx context.Context, input ScheduleMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error)
	SubmitLineup(ctx context.Context, matchID, teamID int, entries []LineupEntryInput) ([]*models.LineupEntry, error)
	Complete(ctx context.Context, matchID int, input CompleteMatchInput) (*models.Match, error)
	RecordWalkover(ctx context.Context, matchID, absentTeamID int, reason models.WalkoverReason) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type ScheduleMatchInput struct {
	TournamentID int       `json:"tournament_id"`
	PhaseID      *int      `json:"phase_id"`
	MatchDay     *int      `json:"match_day"`
	HomeTeamID   int       `json:"home_team_id"`
	AwayTeamID   int       `json:"away_team_id"`
	RefereeID    *int      `json:"referee_id"`
	KickoffAt    time.Time `json:"kickoff_at"`
	Venue        *string   `json:"venue"`
}

type LineupEntryInput struct {
	PlayerID int  `json:"player_id"`
	Starter  bool `json:"starter"`
}

type GoalInput struct {
	PlayerID int  `json:"player_id"`
	Minute   *int `json:"minute"`
	OwnGoal  bool `json:"own_goal"`
}

type CardInput struct {
	PlayerID int             `json:"player_id"`
	Type     models.CardType `json:"type"`
	Minute   *int            `json:"minute"`
	Reason   *string         `json:"reason"`
}

type CompleteMatchInput struct {
	HomeGoals     int  `json:"home_goals"`
	AwayGoals     int  `json:"away_goals"`
	HomePenalties *int `json:"home_penalties"`
	AwayPenalties *int `json:"away_penalties"`

	HomeAbsent     bool                   `json:"home_absent"`
	AwayAbsent     bool                   `json:"away_absent"`
	WalkoverReason *models.WalkoverReason `json:"walkover_reason"`

	Goals []GoalInput `json:"goals"`
	Cards []CardInput `json:"cards"`
	Notes *string     `json:"notes"`
}

type matchService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	teamRepo        repositories.TeamRepository
	playerRepo      repositories.PlayerRepository
	goalRepo        repositories.GoalRepository
	cardRepo        repositories.CardRepository
	lineupRepo      repositories.LineupRepository
	standingRepo    repositories.StandingRepository
	phaseRepo       repositories.PhaseRepository
	tournamentRepo  repositories.TournamentRepository
	categoryRepo    repositories.CategoryRepository
	transactionRepo repositories.TransactionRepository
	defaults        config.Rules
	publisher       EventPublisher
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	goalRepo repositories.GoalRepository,
	cardRepo repositories.CardRepository,
	lineupRepo repositories.LineupRepository,
	standingRepo repositories.StandingRepository,
	phaseRepo repositories.PhaseRepository,
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	transactionRepo repositories.TransactionRepository,
	defaults config.Rules,
	publisher EventPublisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		playerRepo:      playerRepo,
		goalRepo:        goalRepo,
		cardRepo:        cardRepo,
		lineupRepo:      lineupRepo,
		standingRepo:    standingRepo,
		phaseRepo:       phaseRepo,
		tournamentRepo:  tournamentRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		defaults:        defaults,
		publisher:       publisher,
		logger:          logger,
	}
}

func (s *matchService) Schedule(ctx context.Context, input ScheduleMatchInput) (*models.Match, error) {
	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrSameTeamMatch
	}
	if input.KickoffAt.IsZero() {
		return nil, fmt.Errorf("%w: kickoff time is required", ErrValidationFailed)
	}

	if _, err := s.matchTeam(ctx, input.TournamentID, input.HomeTeamID); err != nil {
		return nil, err
	}
	if _, err := s.matchTeam(ctx, input.TournamentID, input.AwayTeamID); err != nil {
		return nil, err
	}

	knockout := false
	if input.PhaseID != nil {
		phase, err := s.phaseRepo.GetByID(ctx, nil, *input.PhaseID)
		if err != nil {
			if errors.Is(err, repositories.ErrPhaseNotFound) {
				return nil, fmt.Errorf("%w: phase %d does not exist", ErrValidationFailed, *input.PhaseID)
			}
			return nil, err
		}
		if phase.TournamentID != input.TournamentID {
			return nil, fmt.Errorf("%w: phase belongs to another tournament", ErrValidationFailed)
		}
		knockout = true
	}

	match := &models.Match{
		TournamentID: input.TournamentID,
		PhaseID:      input.PhaseID,
		MatchDay:     input.MatchDay,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		RefereeID:    input.RefereeID,
		KickoffAt:    input.KickoffAt,
		Venue:        input.Venue,
		Knockout:     knockout,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, fmt.Errorf("%w: match references a missing team or referee", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	goals, err := s.goalRepo.ListByMatch(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		match.Goals = append(match.Goals, *g)
	}
	cards, err := s.cardRepo.ListByMatch(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		match.Cards = append(match.Cards, *c)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter repositories.MatchFilter) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, filter)
}

// SubmitLineup replaces one side's lineup after checking every player
// against the eligibility engine. A suspended player rejects the whole
// submission, it is never silently dropped.
func (s *matchService) SubmitLineup(ctx context.Context, matchID, teamID int, entries []LineupEntryInput) ([]*models.LineupEntry, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if match.Completed {
		return nil, ErrMatchAlreadyCompleted
	}
	if !match.Involves(teamID) {
		return nil, ErrTeamNotInMatch
	}

	roster, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	rosterByID := make(map[int]*models.Player, len(roster))
	for _, p := range roster {
		rosterByID[p.ID] = p
	}

	rules, err := s.rulesForTournament(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}
	teamMatches, err := s.matchRepo.ListCompletedByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	tracker := standings.NewEligibilityTracker(rules)

	lineup := make([]*models.LineupEntry, 0, len(entries))
	for _, entry := range entries {
		player, ok := rosterByID[entry.PlayerID]
		if !ok {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotInTeam, entry.PlayerID)
		}

		cards, err := s.cardRepo.ListByPlayer(ctx, nil, player.ID)
		if err != nil {
			return nil, err
		}
		status := tracker.Replay(player.ID, cards, teamMatches)
		if !status.Eligible {
			return nil, fmt.Errorf("%w: %s (%d matches remaining)", ErrPlayerSuspended, player.FullName(), status.MatchesRemaining)
		}

		lineup = append(lineup, &models.LineupEntry{
			PlayerID: player.ID,
			Starter:  entry.Starter,
		})
	}

	if err := s.lineupRepo.ReplaceForTeam(ctx, nil, matchID, teamID, lineup); err != nil {
		return nil, fmt.Errorf("failed to store lineup: %w", err)
	}
	return lineup, nil
}

// Complete records a result and everything that follows from it in a
// single transaction: the score, goals and cards, card fines, referee
// fee debits, absence bookkeeping, suspension updates, the standings
// rewrite and, for knockout matches, the bracket slot.
func (s *matchService) Complete(ctx context.Context, matchID int, input CompleteMatchInput) (*models.Match, error) {
	if input.HomeGoals < 0 || input.AwayGoals < 0 {
		return nil, ErrNegativeScore
	}
	if input.WalkoverReason != nil && !input.HomeAbsent && !input.AwayAbsent {
		return nil, ErrWalkoverNeedsAbsence
	}

	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if match.Completed {
		return nil, ErrMatchAlreadyCompleted
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, tournament.CategoryID)
	if err != nil && !errors.Is(err, repositories.ErrCategoryNotFound) {
		return nil, err
	}
	rules := mergeCategoryRules(s.defaults, category)

	applyResult(match, input, rules)

	if match.Knockout && match.WinnerTeamID() == nil {
		return nil, fmt.Errorf("%w: a knockout match needs a winner (use penalties to break a draw)", ErrValidationFailed)
	}
	if (input.HomeAbsent || input.AwayAbsent) && len(input.Goals) > 0 {
		return nil, fmt.Errorf("%w: a walkover carries no scorer record", ErrValidationFailed)
	}

	homeTeam, err := s.teamRepo.GetByID(ctx, match.HomeTeamID)
	if err != nil {
		return nil, err
	}
	awayTeam, err := s.teamRepo.GetByID(ctx, match.AwayTeamID)
	if err != nil {
		return nil, err
	}

	playerTeams, err := s.rosterIndex(ctx, match.HomeTeamID, match.AwayTeamID)
	if err != nil {
		return nil, err
	}
	for _, g := range input.Goals {
		if _, ok := playerTeams[g.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: goal scorer %d", ErrPlayerNotInTeam, g.PlayerID)
		}
	}
	for _, c := range input.Cards {
		if _, ok := playerTeams[c.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: carded player %d", ErrPlayerNotInTeam, c.PlayerID)
		}
		if c.Type != models.CardYellow && c.Type != models.CardRed {
			return nil, fmt.Errorf("%w: unknown card type %q", ErrValidationFailed, c.Type)
		}
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.Complete(ctx, tx, match); err != nil {
			return err
		}
		if err := s.recordGoals(ctx, tx, match, input.Goals); err != nil {
			return err
		}
		if err := s.recordCards(ctx, tx, match, input.Cards, category, playerTeams); err != nil {
			return err
		}
		if err := s.chargeRefereeFees(ctx, tx, match, category); err != nil {
			return err
		}
		if err := s.applyAbsences(ctx, tx, match, homeTeam, awayTeam, rules); err != nil {
			return err
		}
		if err := s.refreshSuspensions(ctx, tx, match, rules); err != nil {
			return err
		}
		if match.IsGroupStage() {
			if err := s.rewriteStandings(ctx, tx, tournament); err != nil {
				return err
			}
		} else {
			if err := s.settleBracketSlot(ctx, tx, match); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match completed",
		slog.Int("match_id", match.ID),
		slog.Int("tournament_id", match.TournamentID),
		slog.Int("home_goals", match.HomeGoals),
		slog.Int("away_goals", match.AwayGoals),
		slog.Bool("walkover", match.WalkoverReason != nil))

	if s.publisher != nil {
		s.publisher.Publish(match.TournamentID, map[string]interface{}{
			"type":  "match_completed",
			"match": match,
		})
	}
	return match, nil
}

// RecordWalkover is the shorthand for an absence result: the present
// side wins by the configured walkover score.
func (s *matchService) RecordWalkover(ctx context.Context, matchID, absentTeamID int, reason models.WalkoverReason) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !match.Involves(absentTeamID) {
		return nil, ErrTeamNotInMatch
	}

	input := CompleteMatchInput{WalkoverReason: &reason}
	input.HomeAbsent = match.HomeTeamID == absentTeamID
	input.AwayAbsent = match.AwayTeamID == absentTeamID
	return s.Complete(ctx, matchID, input)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	err := s.matchRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrNotFound
	}
	return err
}

// applyResult fills the match result fields from the input, replacing
// the reported score with the walkover score when a side is absent.
// Both sides absent voids the scoreline entirely: a 0-0 double loss.
func applyResult(match *models.Match, input CompleteMatchInput, rules config.Rules) {
	match.Completed = true
	match.HomeGoals = input.HomeGoals
	match.AwayGoals = input.AwayGoals
	match.HomePenalties = input.HomePenalties
	match.AwayPenalties = input.AwayPenalties
	match.HomeAbsent = input.HomeAbsent
	match.AwayAbsent = input.AwayAbsent
	if input.Notes != nil {
		match.Notes = input.Notes
	}

	if !input.HomeAbsent && !input.AwayAbsent {
		return
	}

	reason := models.WalkoverAbsence
	if input.WalkoverReason != nil {
		reason = *input.WalkoverReason
	}
	match.WalkoverReason = &reason
	match.HomePenalties = nil
	match.AwayPenalties = nil

	switch {
	case input.HomeAbsent && input.AwayAbsent:
		match.HomeGoals = 0
		match.AwayGoals = 0
	case input.HomeAbsent:
		match.HomeGoals = 0
		match.AwayGoals = rules.WalkoverGoals
	case input.AwayAbsent:
		match.HomeGoals = rules.WalkoverGoals
		match.AwayGoals = 0
	}
}

func (s *matchService) recordGoals(ctx context.Context, tx *sql.Tx, match *models.Match, goals []GoalInput) error {
	match.Goals = match.Goals[:0]
	for _, g := range goals {
		goal := &models.Goal{
			MatchID:  match.ID,
			PlayerID: g.PlayerID,
			Minute:   g.Minute,
			OwnGoal:  g.OwnGoal,
		}
		if err := s.goalRepo.Create(ctx, tx, goal); err != nil {
			return fmt.Errorf("failed to record goal: %w", err)
		}
		match.Goals = append(match.Goals, *goal)
	}
	return nil
}

// recordCards stores the cards and books the matching fine against the
// player's team as an automatic debit.
func (s *matchService) recordCards(ctx context.Context, tx *sql.Tx, match *models.Match, cards []CardInput, category *models.Category, playerTeams map[int]int) error {
	match.Cards = match.Cards[:0]
	for _, c := range cards {
		card := &models.Card{
			MatchID:  match.ID,
			PlayerID: c.PlayerID,
			Type:     c.Type,
			Minute:   c.Minute,
			Reason:   c.Reason,
		}
		txType := models.TransactionYellowCardFine
		if category != nil {
			card.FineAmount = category.YellowCardFine
			if c.Type == models.CardRed {
				card.FineAmount = category.RedCardFine
			}
		}
		if c.Type == models.CardRed {
			txType = models.TransactionRedCardFine
		}

		if err := s.cardRepo.Create(ctx, tx, card); err != nil {
			return fmt.Errorf("failed to record card: %w", err)
		}
		match.Cards = append(match.Cards, *card)

		if card.FineAmount > 0 {
			fine := &models.Transaction{
				TeamID:    playerTeams[c.PlayerID],
				MatchID:   &match.ID,
				CardID:    &card.ID,
				Type:      txType,
				Amount:    card.FineAmount,
				Credit:    false,
				Concept:   fmt.Sprintf("%s card fine, match %d", c.Type, match.ID),
				Method:    models.PaymentCash,
				Automatic: true,
			}
			if err := s.transactionRepo.Create(ctx, tx, fine); err != nil {
				return fmt.Errorf("failed to book card fine: %w", err)
			}
		}
	}
	return nil
}

// chargeRefereeFees splits the referee fee over both sides as
// automatic debits. An absent side still owes its share.
func (s *matchService) chargeRefereeFees(ctx context.Context, tx *sql.Tx, match *models.Match, category *models.Category) error {
	if match.RefereeID == nil || category == nil || category.RefereeFee <= 0 {
		return nil
	}
	share := category.RefereeFee / 2
	if share == 0 {
		return nil
	}

	for _, teamID := range []int{match.HomeTeamID, match.AwayTeamID} {
		payment := &models.RefereePayment{
			RefereeID: *match.RefereeID,
			MatchID:   match.ID,
			TeamID:    teamID,
			Amount:    share,
		}
		if err := s.transactionRepo.CreateRefereePayment(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to create referee payment: %w", err)
		}
		debit := &models.Transaction{
			TeamID:    teamID,
			MatchID:   &match.ID,
			Type:      models.TransactionRefereeFee,
			Amount:    share,
			Credit:    false,
			Concept:   fmt.Sprintf("referee fee, match %d", match.ID),
			Method:    models.PaymentCash,
			Automatic: true,
		}
		if err := s.transactionRepo.Create(ctx, tx, debit); err != nil {
			return fmt.Errorf("failed to book referee fee: %w", err)
		}
	}
	return nil
}

// applyAbsences counts the no-show and excludes the team once it
// reaches the configured limit.
func (s *matchService) applyAbsences(ctx context.Context, tx *sql.Tx, match *models.Match, homeTeam, awayTeam *models.Team, rules config.Rules) error {
	apply := func(team *models.Team, absent bool) error {
		if !absent {
			return nil
		}
		team.Absences++
		if rules.AbsenceLimit > 0 && team.Absences >= rules.AbsenceLimit {
			team.ExcludedByAbsence = true
			team.Active = false
			s.logger.Warn("team excluded by absences",
				slog.Int("team_id", team.ID),
				slog.Int("absences", team.Absences))
		}
		return s.teamRepo.UpdateProgress(ctx, tx, team)
	}
	if err := apply(homeTeam, match.HomeAbsent); err != nil {
		return err
	}
	return apply(awayTeam, match.AwayAbsent)
}

// refreshSuspensions replays every player of both teams now that one
// more completed match exists: suspended players serve a match, carded
// players may start a suspension.
func (s *matchService) refreshSuspensions(ctx context.Context, tx *sql.Tx, match *models.Match, rules config.Rules) error {
	tracker := standings.NewEligibilityTracker(rules)

	for _, teamID := range []int{match.HomeTeamID, match.AwayTeamID} {
		teamMatches, err := s.matchRepo.ListCompletedByTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		players, err := s.playerRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return err
		}
		for _, player := range players {
			cards, err := s.cardRepo.ListByPlayer(ctx, tx, player.ID)
			if err != nil {
				return err
			}
			status := tracker.Replay(player.ID, cards, teamMatches)
			if player.Suspended == !status.Eligible && player.SuspensionMatchesRemaining == status.MatchesRemaining {
				continue
			}
			if err := s.playerRepo.UpdateSuspension(ctx, tx, player.ID, !status.Eligible, status.MatchesRemaining); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteStandings recomputes every group table of the tournament from
// completed matches and replaces the persisted rows.
func (s *matchService) rewriteStandings(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error {
	teams, err := s.teamRepo.ListByTournament(ctx, tournament.ID, nil, false)
	if err != nil {
		return err
	}
	completed := true
	matches, err := s.matchRepo.ListByTournament(ctx, tx, tournament.ID, repositories.MatchFilter{
		GroupStage: true,
		Completed:  &completed,
	})
	if err != nil {
		return err
	}
	tallies, err := s.cardRepo.TallyByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return err
	}

	category, err := s.categoryRepo.GetByID(ctx, tournament.CategoryID)
	if err != nil && !errors.Is(err, repositories.ErrCategoryNotFound) {
		return err
	}
	calc := standings.NewCalculator(mergeCategoryRules(s.defaults, category))

	tables := calc.BuildGroupTables(teams, matches, tallies)
	rows := make([]*models.TeamStanding, 0, len(teams))
	for _, table := range tables {
		standings.SortStrict(table, matches)
		for i, row := range table {
			row.Rank = intPtr(i + 1)
			rows = append(rows, row)
		}
	}
	return s.standingRepo.ReplaceForTournament(ctx, tx, tournament.ID, rows)
}

// settleBracketSlot closes the slot behind a knockout match, knocks
// the loser out and completes the phase once its last slot closes.
func (s *matchService) settleBracketSlot(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	slot, err := s.phaseRepo.GetSlotByMatch(ctx, tx, match.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrBracketSlotNotFound) {
			return nil
		}
		return err
	}
	if err := s.phaseRepo.CompleteSlot(ctx, tx, slot.ID); err != nil {
		return err
	}
	slot.Completed = true

	phase, err := s.phaseRepo.GetByID(ctx, tx, slot.PhaseID)
	if err != nil {
		return err
	}

	winner := match.WinnerTeamID()
	if winner != nil {
		loserID := match.HomeTeamID
		if loserID == *winner {
			loserID = match.AwayTeamID
		}
		loser, err := s.teamRepo.GetByID(ctx, loserID)
		if err != nil {
			return err
		}
		loser.EliminatedInPhase = &phase.Name
		if err := s.teamRepo.UpdateProgress(ctx, tx, loser); err != nil {
			return err
		}
	}

	slots, err := s.phaseRepo.ListSlots(ctx, tx, phase.ID)
	if err != nil {
		return err
	}
	allDone := true
	for _, sl := range slots {
		if !sl.Completed {
			allDone = false
			break
		}
	}
	if allDone && phase.State != models.PhaseCompleted {
		return s.phaseRepo.UpdateState(ctx, tx, phase.ID, models.PhaseCompleted)
	}
	return nil
}

func (s *matchService) matchTeam(ctx context.Context, tournamentID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, teamID)
		}
		return nil, err
	}
	if team.TournamentID != tournamentID {
		return nil, fmt.Errorf("%w: team %d plays another tournament", ErrValidationFailed, teamID)
	}
	if team.ExcludedByAbsence {
		return nil, ErrTeamExcluded
	}
	if !team.Active {
		return nil, ErrTeamInactive
	}
	return team, nil
}

func (s *matchService) rosterIndex(ctx context.Context, teamIDs ...int) (map[int]int, error) {
	index := make(map[int]int)
	for _, teamID := range teamIDs {
		players, err := s.playerRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		for _, p := range players {
			index[p.ID] = teamID
		}
	}
	return index, nil
}

func (s *matchService) rulesForTournament(ctx context.Context, tournamentID int) (config.Rules, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return s.defaults, err
	}
	category, err := s.categoryRepo.GetByID(ctx, tournament.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return s.defaults, nil
		}
		return s.defaults, err
	}
	return mergeCategoryRules(s.defaults, category), nil
}
