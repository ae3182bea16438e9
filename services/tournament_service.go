package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/storage"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, stage *models.TournamentStage) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	UpdateStage(ctx context.Context, id int, stage models.TournamentStage) (*models.Tournament, error)
	DrawGroups(ctx context.Context, id int) ([]*models.Team, error)
	Stats(ctx context.Context, id int, topScorers int) (*models.TournamentStats, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type TournamentInput struct {
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CategoryID  int        `json:"category_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`

	GroupCount      int `json:"group_count"`
	QualifyPerGroup int `json:"qualify_per_group"`
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	categoryRepo   repositories.CategoryRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	cardRepo       repositories.CardRepository
	goalRepo       repositories.GoalRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	categoryRepo repositories.CategoryRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	cardRepo repositories.CardRepository,
	goalRepo repositories.GoalRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		categoryRepo:   categoryRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		cardRepo:       cardRepo,
		goalRepo:       goalRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", ErrValidationFailed, input.CategoryID)
		}
		return nil, err
	}

	tournament := &models.Tournament{
		Name:            input.Name,
		Description:     input.Description,
		CategoryID:      input.CategoryID,
		OrganizerID:     organizerID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Location:        input.Location,
		Stage:           models.StageRegistration,
		GroupCount:      input.GroupCount,
		QualifyPerGroup: input.QualifyPerGroup,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentCategoryInvalid) {
			return nil, fmt.Errorf("%w: category %d does not exist", ErrValidationFailed, input.CategoryID)
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if category, err := s.categoryRepo.GetByID(ctx, tournament.CategoryID); err == nil {
		tournament.Category = category
	}
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, stage *models.TournamentStage) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	for _, t := range tournaments {
		s.populateLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Stage != models.StageRegistration && input.GroupCount != tournament.GroupCount {
		return nil, fmt.Errorf("%w: group layout cannot change after the draw", ErrValidationFailed)
	}

	tournament.Name = input.Name
	tournament.Description = input.Description
	tournament.CategoryID = input.CategoryID
	tournament.StartDate = input.StartDate
	tournament.EndDate = input.EndDate
	tournament.Location = input.Location
	tournament.GroupCount = input.GroupCount
	tournament.QualifyPerGroup = input.QualifyPerGroup

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return tournament, nil
}

// stageTransitions defines the allowed lifecycle moves. Any stage
// except finished can still be canceled.
var stageTransitions = map[models.TournamentStage][]models.TournamentStage{
	models.StageRegistration: {models.StageGroups, models.StageCanceled},
	models.StageGroups:       {models.StageKnockout, models.StageCanceled},
	models.StageKnockout:     {models.StageFinished, models.StageCanceled},
	models.StageFinished:     {},
	models.StageCanceled:     {},
}

func validStageTransition(current, next models.TournamentStage) bool {
	if current == next {
		return true
	}
	for _, allowed := range stageTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func (s *tournamentService) UpdateStage(ctx context.Context, id int, stage models.TournamentStage) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validStageTransition(tournament.Stage, stage) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStageTransitionInvalid, tournament.Stage, stage)
	}

	if stage == models.StageKnockout {
		pending, err := s.pendingGroupMatches(ctx, id)
		if err != nil {
			return nil, err
		}
		if pending > 0 {
			return nil, fmt.Errorf("%w: %d matches pending", ErrGroupStageUnfinished, pending)
		}
	}

	if err := s.tournamentRepo.UpdateStage(ctx, nil, id, stage); err != nil {
		return nil, fmt.Errorf("failed to update tournament stage: %w", err)
	}
	s.logger.Info("tournament stage changed",
		slog.Int("tournament_id", id),
		slog.String("from", string(tournament.Stage)),
		slog.String("to", string(stage)))

	tournament.Stage = stage
	return tournament, nil
}

// DrawGroups distributes active teams over the configured groups in a
// snake pattern by registration order and moves the tournament to the
// group stage. The whole draw commits atomically.
func (s *tournamentService) DrawGroups(ctx context.Context, id int) ([]*models.Team, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tournament.Stage != models.StageRegistration {
		return nil, fmt.Errorf("%w: draw is only possible during registration", ErrStageTransitionInvalid)
	}
	if tournament.GroupCount < 1 {
		return nil, fmt.Errorf("%w: tournament has no group layout", ErrValidationFailed)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, id, nil, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) < tournament.GroupCount {
		return nil, fmt.Errorf("%w: %d teams cannot fill %d groups", ErrValidationFailed, len(teams), tournament.GroupCount)
	}

	assignGroupCodes(teams, tournament.GroupCount)

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		for _, team := range teams {
			if err := s.teamRepo.UpdateGroupCode(ctx, tx, team.ID, team.GroupCode); err != nil {
				return fmt.Errorf("failed to assign team %d to group %s: %w", team.ID, team.GroupCode, err)
			}
		}
		return s.tournamentRepo.UpdateStage(ctx, tx, id, models.StageGroups)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group draw completed",
		slog.Int("tournament_id", id),
		slog.Int("teams", len(teams)),
		slog.Int("groups", tournament.GroupCount))
	return teams, nil
}

// assignGroupCodes snakes the team list across groups A, B, C, ... so
// early and late registrations spread evenly.
func assignGroupCodes(teams []*models.Team, groupCount int) {
	forward := true
	group := 0
	for _, team := range teams {
		team.GroupCode = string(rune('A' + group))
		if forward {
			group++
			if group == groupCount {
				group = groupCount - 1
				forward = false
			}
		} else {
			group--
			if group < 0 {
				group = 0
				forward = true
			}
		}
	}
}

func (s *tournamentService) Stats(ctx context.Context, id int, topScorers int) (*models.TournamentStats, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, id, nil, false)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, id, repositories.MatchFilter{})
	if err != nil {
		return nil, err
	}

	stats := &models.TournamentStats{TournamentID: id, TeamCount: len(teams)}
	for _, m := range matches {
		if m.Completed {
			stats.MatchesPlayed++
			stats.GoalsScored += m.HomeGoals + m.AwayGoals
		} else {
			stats.MatchesPending++
		}
	}

	tallies, err := s.cardRepo.TallyByTournament(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	for _, tally := range tallies {
		stats.YellowCards += tally.Yellow
		stats.RedCards += tally.Red
	}

	if topScorers > 0 {
		scorers, err := s.goalRepo.CountByPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(scorers) > topScorers {
			scorers = scorers[:topScorers]
		}
		for _, entry := range scorers {
			stats.TopScorers = append(stats.TopScorers, *entry)
		}
	}
	return stats, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	key := fmt.Sprintf("tournaments/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament logo: %w", err)
	}
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}

	tournament.LogoKey = &result.Key
	s.populateLogoURL(tournament)
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *tournamentService) pendingGroupMatches(ctx context.Context, tournamentID int) (int, error) {
	pending := false
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.MatchFilter{
		GroupStage: true,
		Completed:  &pending,
	})
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func (s *tournamentService) populateLogoURL(t *models.Tournament) {
	if t == nil || t.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*t.LogoKey)
	t.LogoURL = &url
}

func validateTournamentInput(input TournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	if input.CategoryID <= 0 {
		return fmt.Errorf("%w: category is required", ErrValidationFailed)
	}
	if input.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrValidationFailed)
	}
	if input.EndDate != nil && !input.StartDate.Before(*input.EndDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrValidationFailed)
	}
	if input.GroupCount < 0 || input.GroupCount > 26 {
		return fmt.Errorf("%w: group count must be between 0 and 26", ErrValidationFailed)
	}
	if input.QualifyPerGroup < 0 {
		return fmt.Errorf("%w: qualifiers per group must not be negative", ErrValidationFailed)
	}
	return nil
}
