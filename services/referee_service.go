package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
)

type RefereeService interface {
	Create(ctx context.Context, input RefereeInput) (*models.Referee, error)
	GetByID(ctx context.Context, id int) (*models.Referee, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Referee, error)
	Update(ctx context.Context, id int, input RefereeInput) (*models.Referee, error)
}

type RefereeInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Active    *bool   `json:"active"`
}

type refereeService struct {
	refereeRepo repositories.RefereeRepository
}

func NewRefereeService(refereeRepo repositories.RefereeRepository) RefereeService {
	return &refereeService{refereeRepo: refereeRepo}
}

func (s *refereeService) Create(ctx context.Context, input RefereeInput) (*models.Referee, error) {
	if input.FirstName == "" {
		return nil, fmt.Errorf("%w: referee first name is required", ErrValidationFailed)
	}
	referee := &models.Referee{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Email:     input.Email,
		Active:    true,
	}
	if err := s.refereeRepo.Create(ctx, referee); err != nil {
		return nil, fmt.Errorf("failed to create referee: %w", err)
	}
	return referee, nil
}

func (s *refereeService) GetByID(ctx context.Context, id int) (*models.Referee, error) {
	referee, err := s.refereeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return referee, nil
}

func (s *refereeService) List(ctx context.Context, activeOnly bool) ([]*models.Referee, error) {
	return s.refereeRepo.List(ctx, activeOnly)
}

func (s *refereeService) Update(ctx context.Context, id int, input RefereeInput) (*models.Referee, error) {
	referee, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != "" {
		referee.FirstName = input.FirstName
	}
	if input.LastName != "" {
		referee.LastName = input.LastName
	}
	if input.Phone != nil {
		referee.Phone = input.Phone
	}
	if input.Email != nil {
		referee.Email = input.Email
	}
	if input.Active != nil {
		referee.Active = *input.Active
	}
	if err := s.refereeRepo.Update(ctx, referee); err != nil {
		if errors.Is(err, repositories.ErrRefereeNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update referee: %w", err)
	}
	return referee, nil
}
