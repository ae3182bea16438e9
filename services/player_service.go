package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/standings"
	"github.com/goolstar/goolstar-api/storage"
)

type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	Eligibility(ctx context.Context, id int) (*standings.EligibilityStatus, error)
	UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.Player, error)
	Delete(ctx context.Context, id int) error
}

type PlayerInput struct {
	TeamID       int        `json:"team_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Document     string     `json:"document"`
	BirthDate    *time.Time `json:"birth_date"`
	JerseyNumber int        `json:"jersey_number"`
	Position     *string    `json:"position"`
}

type playerService struct {
	playerRepo   repositories.PlayerRepository
	teamRepo     repositories.TeamRepository
	cardRepo     repositories.CardRepository
	matchRepo    repositories.MatchRepository
	categoryRepo repositories.CategoryRepository
	defaults     config.Rules
	uploader     storage.FileUploader
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	cardRepo repositories.CardRepository,
	matchRepo repositories.MatchRepository,
	categoryRepo repositories.CategoryRepository,
	defaults config.Rules,
	uploader storage.FileUploader,
) PlayerService {
	return &playerService{
		playerRepo:   playerRepo,
		teamRepo:     teamRepo,
		cardRepo:     cardRepo,
		matchRepo:    matchRepo,
		categoryRepo: categoryRepo,
		defaults:     defaults,
		uploader:     uploader,
	}
}

func (s *playerService) Create(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, input.TeamID)
		}
		return nil, err
	}
	if team.ExcludedByAbsence {
		return nil, ErrTeamExcluded
	}

	player := &models.Player{
		TeamID:       input.TeamID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Document:     input.Document,
		BirthDate:    input.BirthDate,
		JerseyNumber: input.JerseyNumber,
		Position:     input.Position,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNumberConflict) {
			return nil, ErrJerseyNumberTaken
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.populatePhotoURL(player)
	return player, nil
}

func (s *playerService) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for _, p := range players {
		s.populatePhotoURL(p)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if input.TeamID != player.TeamID {
		return nil, fmt.Errorf("%w: players cannot move between teams", ErrValidationFailed)
	}

	player.FirstName = input.FirstName
	player.LastName = input.LastName
	player.Document = input.Document
	player.BirthDate = input.BirthDate
	player.JerseyNumber = input.JerseyNumber
	player.Position = input.Position

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNumberConflict) {
			return nil, ErrJerseyNumberTaken
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return player, nil
}

// Eligibility rebuilds the player's suspension state from the full
// disciplinary record and syncs the persisted columns when they have
// drifted.
func (s *playerService) Eligibility(ctx context.Context, id int) (*standings.EligibilityStatus, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rules, err := s.rulesForTeam(ctx, player.TeamID)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.ListByPlayer(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list player cards: %w", err)
	}
	teamMatches, err := s.matchRepo.ListCompletedByTeam(ctx, nil, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team matches: %w", err)
	}

	status := standings.NewEligibilityTracker(rules).Replay(id, cards, teamMatches)

	if player.Suspended != !status.Eligible || player.SuspensionMatchesRemaining != status.MatchesRemaining {
		if err := s.playerRepo.UpdateSuspension(ctx, nil, id, !status.Eligible, status.MatchesRemaining); err != nil {
			return nil, fmt.Errorf("failed to sync suspension state: %w", err)
		}
	}
	return &status, nil
}

func (s *playerService) UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	key := fmt.Sprintf("players/%d/photo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}
	if err := s.playerRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}

	player.PhotoKey = &result.Key
	s.populatePhotoURL(player)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *playerService) rulesForTeam(ctx context.Context, teamID int) (config.Rules, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return s.defaults, err
	}
	category, err := s.categoryRepo.GetByID(ctx, team.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return s.defaults, nil
		}
		return s.defaults, err
	}
	return mergeCategoryRules(s.defaults, category), nil
}

func (s *playerService) populatePhotoURL(player *models.Player) {
	if player == nil || player.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.PhotoKey)
	player.PhotoURL = &url
}

func validatePlayerInput(input PlayerInput) error {
	if input.FirstName == "" {
		return fmt.Errorf("%w: player first name is required", ErrValidationFailed)
	}
	if input.Document == "" {
		return fmt.Errorf("%w: player document is required", ErrValidationFailed)
	}
	if input.JerseyNumber <= 0 {
		return fmt.Errorf("%w: jersey number must be positive", ErrValidationFailed)
	}
	return nil
}
