package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/storage"
)

type TeamService interface {
	Create(ctx context.Context, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, groupCode *string, activeOnly bool) ([]*models.Team, error)
	Update(ctx context.Context, id int, input TeamUpdateInput) (*models.Team, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id int) error
}

type TeamInput struct {
	Name         string  `json:"name"`
	TournamentID int     `json:"tournament_id"`
	CoachName    *string `json:"coach_name"`
}

type TeamUpdateInput struct {
	Name      string  `json:"name"`
	CoachName *string `json:"coach_name"`
	Active    *bool   `json:"active"`
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	uploader       storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		uploader:       uploader,
	}
}

func (s *teamService) Create(ctx context.Context, input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, fmt.Errorf("%w: tournament %d does not exist", ErrValidationFailed, input.TournamentID)
		}
		return nil, err
	}
	if tournament.Stage != models.StageRegistration {
		return nil, fmt.Errorf("%w: teams can only register during the registration stage", ErrStageTransitionInvalid)
	}

	team := &models.Team{
		Name:         input.Name,
		TournamentID: input.TournamentID,
		CategoryID:   tournament.CategoryID,
		CoachName:    input.CoachName,
		Active:       true,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team players: %w", err)
	}
	team.Players = make([]models.Player, 0, len(players))
	for _, p := range players {
		s.populatePhotoURL(p)
		team.Players = append(team.Players, *p)
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID int, groupCode *string, activeOnly bool) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID, groupCode, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, t := range teams {
		s.populateLogoURL(t)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input TeamUpdateInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if team.ExcludedByAbsence {
		return nil, ErrTeamExcluded
	}

	if input.Name != "" {
		team.Name = input.Name
	}
	if input.CoachName != nil {
		team.CoachName = input.CoachName
	}
	if input.Active != nil {
		team.Active = *input.Active
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file storage is not configured")
	}

	key := fmt.Sprintf("teams/%d/logo", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, err
	}

	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	err := s.teamRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team == nil || team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	team.LogoURL = &url
}

func (s *teamService) populatePhotoURL(player *models.Player) {
	if player == nil || player.PhotoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*player.PhotoKey)
	player.PhotoURL = &url
}
