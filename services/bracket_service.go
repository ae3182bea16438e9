package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/goolstar/goolstar-api/brackets"
	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/standings"
)

type BracketService interface {
	// GenerateFirstPhase seeds the opening knockout round from the
	// final group tables, filling open slots with best losers, and
	// moves the tournament to the knockout stage.
	GenerateFirstPhase(ctx context.Context, tournamentID int, input GeneratePhaseInput) (*models.Phase, error)
	// GenerateNextPhase pairs the winners of the latest completed
	// phase. With a single winner left it finishes the tournament.
	GenerateNextPhase(ctx context.Context, tournamentID int, startAt time.Time) (*models.Phase, error)
	// Bracket returns every phase with its slots.
	Bracket(ctx context.Context, tournamentID int) ([]*models.Phase, error)
	// AdvanceReadyBrackets generates the next phase for every knockout
	// tournament whose current phase is fully played. Used by the
	// scheduler in main.
	AdvanceReadyBrackets(ctx context.Context) error
}

type GeneratePhaseInput struct {
	// BracketSize is the number of knockout berths. Zero means the
	// next power of two that fits the automatic qualifiers.
	BracketSize int       `json:"bracket_size"`
	StartAt     time.Time `json:"start_at"`
}

type bracketService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	teamRepo        repositories.TeamRepository
	matchRepo       repositories.MatchRepository
	phaseRepo       repositories.PhaseRepository
	standingService StandingService
	generator       brackets.Generator
	publisher       EventPublisher
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	phaseRepo repositories.PhaseRepository,
	standingService StandingService,
	generator brackets.Generator,
	publisher EventPublisher,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		teamRepo:        teamRepo,
		matchRepo:       matchRepo,
		phaseRepo:       phaseRepo,
		standingService: standingService,
		generator:       generator,
		publisher:       publisher,
		logger:          logger,
	}
}

func (s *bracketService) GenerateFirstPhase(ctx context.Context, tournamentID int, input GeneratePhaseInput) (*models.Phase, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tournament.Stage != models.StageGroups {
		return nil, fmt.Errorf("%w: knockout can only be generated from the group stage", ErrStageTransitionInvalid)
	}
	if err := s.requireGroupStageFinished(ctx, tournamentID); err != nil {
		return nil, err
	}

	phases, err := s.phaseRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(phases) > 0 {
		return nil, fmt.Errorf("%w: knockout phases already exist", ErrValidationFailed)
	}

	tables, err := s.standingService.Tables(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	qualifyPerGroup := tournament.QualifyPerGroup
	if qualifyPerGroup < 1 {
		qualifyPerGroup = 2
	}
	seeds := seedQualifiers(tables, qualifyPerGroup)

	size := input.BracketSize
	if size == 0 {
		size = nextPowerOfTwo(len(seeds))
	}
	if size < 2 {
		return nil, brackets.ErrNotEnoughSeeds
	}
	if len(seeds) > size {
		seeds = seeds[:size]
	}

	if missing := size - len(seeds); missing > 0 {
		losers, err := s.standingService.BestLosers(ctx, tournamentID, qualifyPerGroup+1, missing)
		if err != nil && !errors.Is(err, standings.ErrInsufficientCandidates) {
			return nil, err
		}
		for _, bl := range losers {
			seeds = append(seeds, brackets.Seed{TeamID: bl.TeamID, GroupCode: bl.GroupCode})
		}
	}

	pairings, err := s.generator.Generate(ctx, brackets.GenerateParams{Seeds: seeds})
	if err != nil {
		return nil, fmt.Errorf("failed to generate bracket: %w", err)
	}

	startAt := input.StartAt
	if startAt.IsZero() {
		startAt = time.Now().Add(24 * time.Hour)
	}

	phase := &models.Phase{
		TournamentID: tournamentID,
		Name:         brackets.RoundName(size),
		Order:        1,
		State:        models.PhaseInProgress,
		StartDate:    &startAt,
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.phaseRepo.Create(ctx, tx, phase); err != nil {
			return err
		}
		if err := s.persistPairings(ctx, tx, tournament, phase, pairings, startAt); err != nil {
			return err
		}
		for _, seed := range seeds {
			team, err := s.teamRepo.GetByID(ctx, seed.TeamID)
			if err != nil {
				return err
			}
			if team.Qualified {
				continue
			}
			team.Qualified = true
			if err := s.teamRepo.UpdateProgress(ctx, tx, team); err != nil {
				return err
			}
		}
		return s.tournamentRepo.UpdateStage(ctx, tx, tournamentID, models.StageKnockout)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("knockout phase generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("phase", phase.Name),
		slog.Int("seeds", len(seeds)),
		slog.String("generator", s.generator.Name()))

	if s.publisher != nil {
		s.publisher.Publish(tournamentID, map[string]interface{}{
			"type":  "phase_generated",
			"phase": phase,
		})
	}
	return s.loadPhase(ctx, phase.ID)
}

func (s *bracketService) GenerateNextPhase(ctx context.Context, tournamentID int, startAt time.Time) (*models.Phase, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tournament.Stage != models.StageKnockout {
		return nil, ErrTournamentNotKnockout
	}

	phases, err := s.phaseRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("%w: no knockout phase exists yet", ErrValidationFailed)
	}
	prev := phases[len(phases)-1]

	prevSlots, err := s.phaseRepo.ListSlots(ctx, nil, prev.ID)
	if err != nil {
		return nil, err
	}
	prev.State = brackets.PhaseState(prevSlots)
	if err := brackets.ValidateProgression(prev); err != nil {
		return nil, err
	}

	winners, err := s.slotWinners(ctx, prevSlots)
	if err != nil {
		return nil, err
	}

	if len(winners) < 2 {
		// Single winner left: the champion is decided.
		if err := s.tournamentRepo.UpdateStage(ctx, nil, tournamentID, models.StageFinished); err != nil {
			return nil, err
		}
		s.logger.Info("tournament finished", slog.Int("tournament_id", tournamentID))
		if s.publisher != nil && len(winners) == 1 {
			s.publisher.Publish(tournamentID, map[string]interface{}{
				"type":    "tournament_finished",
				"team_id": winners[0].TeamID,
			})
		}
		return nil, nil
	}

	if startAt.IsZero() {
		startAt = time.Now().Add(24 * time.Hour)
	}

	phase := &models.Phase{
		TournamentID: tournamentID,
		Name:         brackets.RoundName(len(winners)),
		Order:        prev.Order + 1,
		State:        models.PhaseInProgress,
		StartDate:    &startAt,
	}

	// Winners pair off in slot order so bracket paths stay fixed.
	pairings := make([]*brackets.Pairing, 0, len(winners)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		away := winners[i+1]
		pairings = append(pairings, &brackets.Pairing{
			SlotNumber: i/2 + 1,
			Home:       winners[i],
			Away:       &away,
		})
	}
	if len(winners)%2 == 1 {
		last := winners[len(winners)-1]
		pairings = append(pairings, &brackets.Pairing{
			SlotNumber: len(winners)/2 + 1,
			Home:       last,
		})
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.phaseRepo.Create(ctx, tx, phase); err != nil {
			return err
		}
		return s.persistPairings(ctx, tx, tournament, phase, pairings, startAt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("next knockout phase generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("phase", phase.Name),
		slog.Int("pairings", len(pairings)))

	if s.publisher != nil {
		s.publisher.Publish(tournamentID, map[string]interface{}{
			"type":  "phase_generated",
			"phase": phase,
		})
	}
	return s.loadPhase(ctx, phase.ID)
}

func (s *bracketService) Bracket(ctx context.Context, tournamentID int) ([]*models.Phase, error) {
	phases, err := s.phaseRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, phase := range phases {
		slots, err := s.phaseRepo.ListSlots(ctx, nil, phase.ID)
		if err != nil {
			return nil, err
		}
		phase.Slots = make([]models.BracketSlot, 0, len(slots))
		for _, slot := range slots {
			phase.Slots = append(phase.Slots, *slot)
		}
	}
	return phases, nil
}

func (s *bracketService) AdvanceReadyBrackets(ctx context.Context) error {
	stage := models.StageKnockout
	tournaments, err := s.tournamentRepo.List(ctx, &stage)
	if err != nil {
		return fmt.Errorf("failed to list knockout tournaments: %w", err)
	}

	var failed error
	for _, tournament := range tournaments {
		_, err := s.GenerateNextPhase(ctx, tournament.ID, time.Time{})
		switch {
		case err == nil:
		case errors.Is(err, brackets.ErrPhaseIncomplete):
			// Current phase still has open slots; nothing to do yet.
		case errors.Is(err, ErrValidationFailed):
		default:
			s.logger.Error("failed to advance bracket",
				slog.Int("tournament_id", tournament.ID),
				slog.Any("error", err))
			failed = errors.Join(failed, err)
		}
	}
	return failed
}

// persistPairings writes the slots and schedules a match for every
// full pairing. A bye slot closes immediately.
func (s *bracketService) persistPairings(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, phase *models.Phase, pairings []*brackets.Pairing, startAt time.Time) error {
	for _, pairing := range pairings {
		slot := &models.BracketSlot{
			PhaseID:    phase.ID,
			SlotNumber: pairing.SlotNumber,
			HomeTeamID: intPtr(pairing.Home.TeamID),
		}
		if pairing.Away != nil {
			slot.AwayTeamID = intPtr(pairing.Away.TeamID)
		}
		if err := s.phaseRepo.CreateSlot(ctx, tx, slot); err != nil {
			return fmt.Errorf("failed to create bracket slot %d: %w", pairing.SlotNumber, err)
		}

		if pairing.Away == nil {
			// Bye: the home side advances unplayed.
			if err := s.phaseRepo.CompleteSlot(ctx, tx, slot.ID); err != nil {
				return err
			}
			continue
		}

		match := &models.Match{
			TournamentID: tournament.ID,
			PhaseID:      intPtr(phase.ID),
			HomeTeamID:   pairing.Home.TeamID,
			AwayTeamID:   pairing.Away.TeamID,
			KickoffAt:    startAt.Add(time.Duration(pairing.SlotNumber-1) * time.Hour),
			Knockout:     true,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to schedule knockout match for slot %d: %w", pairing.SlotNumber, err)
		}
		if err := s.phaseRepo.UpdateSlotMatch(ctx, tx, slot.ID, intPtr(match.ID)); err != nil {
			return err
		}
	}
	return nil
}

// slotWinners resolves each completed slot to its advancing team, in
// slot order. Bye slots advance their home side.
func (s *bracketService) slotWinners(ctx context.Context, slots []*models.BracketSlot) ([]brackets.Seed, error) {
	winners := make([]brackets.Seed, 0, len(slots))
	for _, slot := range slots {
		if slot.MatchID == nil {
			if slot.HomeTeamID != nil {
				winners = append(winners, brackets.Seed{TeamID: *slot.HomeTeamID})
			}
			continue
		}
		match, err := s.matchRepo.GetByID(ctx, nil, *slot.MatchID)
		if err != nil {
			return nil, err
		}
		winner := match.WinnerTeamID()
		if winner == nil {
			return nil, fmt.Errorf("%w: match %d has no winner", brackets.ErrPhaseIncomplete, match.ID)
		}
		winners = append(winners, brackets.Seed{TeamID: *winner})
	}
	return winners, nil
}

// seedQualifiers flattens the group tables into seed order: all group
// winners ranked against each other, then all runners-up, and so on.
func seedQualifiers(tables []*GroupTable, qualifyPerGroup int) []brackets.Seed {
	seeds := make([]brackets.Seed, 0)
	for position := 0; position < qualifyPerGroup; position++ {
		tier := make([]*models.TeamStanding, 0, len(tables))
		groupOf := make(map[int]string, len(tables))
		for _, table := range tables {
			if position >= len(table.Rows) {
				continue
			}
			row := table.Rows[position]
			tier = append(tier, row)
			groupOf[row.TeamID] = table.GroupCode
		}
		sort.SliceStable(tier, func(i, j int) bool {
			return standings.Less(tier[i], tier[j])
		})
		for _, row := range tier {
			seeds = append(seeds, brackets.Seed{TeamID: row.TeamID, GroupCode: groupOf[row.TeamID]})
		}
	}
	return seeds
}

func (s *bracketService) requireGroupStageFinished(ctx context.Context, tournamentID int) error {
	pending := false
	unplayed, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.MatchFilter{
		GroupStage: true,
		Completed:  &pending,
	})
	if err != nil {
		return err
	}
	if len(unplayed) > 0 {
		return fmt.Errorf("%w: %d matches pending", ErrGroupStageUnfinished, len(unplayed))
	}
	return nil
}

func (s *bracketService) loadPhase(ctx context.Context, phaseID int) (*models.Phase, error) {
	phase, err := s.phaseRepo.GetByID(ctx, nil, phaseID)
	if err != nil {
		return nil, err
	}
	slots, err := s.phaseRepo.ListSlots(ctx, nil, phaseID)
	if err != nil {
		return nil, err
	}
	phase.Slots = make([]models.BracketSlot, 0, len(slots))
	for _, slot := range slots {
		phase.Slots = append(phase.Slots, *slot)
	}
	return phase, nil
}

func nextPowerOfTwo(n int) int {
	size := 2
	for size < n {
		size *= 2
	}
	return size
}
