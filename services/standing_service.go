package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/standings"
	"golang.org/x/sync/errgroup"
)

// GroupTable is one group's ranked rows.
type GroupTable struct {
	GroupCode string                 `json:"group_code"`
	Rows      []*models.TeamStanding `json:"rows"`
}

type StandingService interface {
	// Tables computes the group tables live from match history.
	Tables(ctx context.Context, tournamentID int) ([]*GroupTable, error)
	// Persisted returns the stored rows written by match completion.
	Persisted(ctx context.Context, tournamentID int, groupCode *string) ([]*models.TeamStanding, error)
	// BestLosers ranks the teams at the given group position across
	// groups and stores the ranking.
	BestLosers(ctx context.Context, tournamentID, rank, slots int) ([]*models.BestLoser, error)
}

type standingService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	cardRepo       repositories.CardRepository
	categoryRepo   repositories.CategoryRepository
	standingRepo   repositories.StandingRepository
	phaseRepo      repositories.PhaseRepository
	defaults       config.Rules
}

func NewStandingService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	cardRepo repositories.CardRepository,
	categoryRepo repositories.CategoryRepository,
	standingRepo repositories.StandingRepository,
	phaseRepo repositories.PhaseRepository,
	defaults config.Rules,
) StandingService {
	return &standingService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		cardRepo:       cardRepo,
		categoryRepo:   categoryRepo,
		standingRepo:   standingRepo,
		phaseRepo:      phaseRepo,
		defaults:       defaults,
	}
}

func (s *standingService) Tables(ctx context.Context, tournamentID int) ([]*GroupTable, error) {
	tables, matches, err := s.computeTables(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	result := make([]*GroupTable, 0, len(tables))
	for code, table := range tables {
		standings.SortStrict(table, matches)
		for i, row := range table {
			row.Rank = intPtr(i + 1)
		}
		result = append(result, &GroupTable{GroupCode: code, Rows: table})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GroupCode < result[j].GroupCode
	})
	return result, nil
}

func (s *standingService) Persisted(ctx context.Context, tournamentID int, groupCode *string) ([]*models.TeamStanding, error) {
	rows, err := s.standingRepo.ListByTournament(ctx, tournamentID, groupCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	return rows, nil
}

func (s *standingService) BestLosers(ctx context.Context, tournamentID, rank, slots int) ([]*models.BestLoser, error) {
	tables, matches, err := s.computeTables(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		standings.SortStrict(table, matches)
	}

	losers, selErr := standings.SelectBestLosers(tables, rank, slots)
	if selErr != nil && !errors.Is(selErr, standings.ErrInsufficientCandidates) {
		return nil, selErr
	}

	if err := s.phaseRepo.ReplaceBestLosers(ctx, nil, tournamentID, losers); err != nil {
		return nil, fmt.Errorf("failed to store best-loser ranking: %w", err)
	}
	return losers, selErr
}

// computeTables loads teams, completed group matches and card tallies
// concurrently and derives the group tables.
func (s *standingService) computeTables(ctx context.Context, tournamentID int) (map[string][]*models.TeamStanding, []*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var (
		teams    []*models.Team
		matches  []*models.Match
		tallies  map[int]standings.CardTally
		category *models.Category
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID, nil, false)
		return err
	})
	g.Go(func() error {
		completed := true
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, nil, tournamentID, repositories.MatchFilter{
			GroupStage: true,
			Completed:  &completed,
		})
		return err
	})
	g.Go(func() error {
		var err error
		tallies, err = s.cardRepo.TallyByTournament(gCtx, nil, tournamentID)
		return err
	})
	g.Go(func() error {
		c, err := s.categoryRepo.GetByID(gCtx, tournament.CategoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil
			}
			return err
		}
		category = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load standings inputs: %w", err)
	}

	calc := standings.NewCalculator(mergeCategoryRules(s.defaults, category))
	return calc.BuildGroupTables(teams, matches, tallies), matches, nil
}
