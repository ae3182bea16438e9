package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/goolstar/goolstar-api/config"
	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
	"github.com/goolstar/goolstar-api/storage"
)

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*models.Category, error)
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, id int, input CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int) error
	Rules(category *models.Category) config.Rules
}

type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`

	EntryFee       int64 `json:"entry_fee"`
	RefereeFee     int64 `json:"referee_fee"`
	YellowCardFine int64 `json:"yellow_card_fine"`
	RedCardFine    int64 `json:"red_card_fine"`
	PrizeFirst     int64 `json:"prize_first"`
	PrizeSecond    int64 `json:"prize_second"`
	PrizeThird     int64 `json:"prize_third"`
	PrizeFourth    int64 `json:"prize_fourth"`

	YellowCardLimit          *int `json:"yellow_card_limit"`
	RedCardSuspensionMatches *int `json:"red_card_suspension_matches"`
	AbsenceLimit             *int `json:"absence_limit"`
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	defaults     config.Rules
	uploader     storage.FileUploader
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, defaults config.Rules, uploader storage.FileUploader) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		defaults:     defaults,
		uploader:     uploader,
	}
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	category, err := s.buildCategory(input)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNameConflict) {
			return nil, fmt.Errorf("%w: category name %q", ErrValidationFailed, input.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.populateLogoURL(category)
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		s.populateLogoURL(c)
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, id int, input CategoryInput) (*models.Category, error) {
	category, err := s.buildCategory(input)
	if err != nil {
		return nil, err
	}
	category.ID = id

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrCategoryNameConflict):
			return nil, fmt.Errorf("%w: category name %q", ErrValidationFailed, input.Name)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id int) error {
	err := s.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrCategoryNotFound) {
		return ErrNotFound
	}
	return err
}

// Rules merges the category's disciplinary thresholds over the global
// defaults. Point values and walkover goals are competition-wide.
func (s *categoryService) Rules(category *models.Category) config.Rules {
	return mergeCategoryRules(s.defaults, category)
}

func mergeCategoryRules(defaults config.Rules, category *models.Category) config.Rules {
	rules := defaults
	if category == nil {
		return rules
	}
	if category.YellowCardLimit > 0 {
		rules.YellowCardLimit = category.YellowCardLimit
	}
	if category.RedCardSuspensionMatches > 0 {
		rules.RedCardSuspensionMatches = category.RedCardSuspensionMatches
	}
	if category.AbsenceLimit > 0 {
		rules.AbsenceLimit = category.AbsenceLimit
	}
	return rules
}

func (s *categoryService) buildCategory(input CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidationFailed)
	}
	for _, amount := range []int64{
		input.EntryFee, input.RefereeFee, input.YellowCardFine, input.RedCardFine,
		input.PrizeFirst, input.PrizeSecond, input.PrizeThird, input.PrizeFourth,
	} {
		if amount < 0 {
			return nil, fmt.Errorf("%w: money amounts must not be negative", ErrValidationFailed)
		}
	}

	category := &models.Category{
		Name:           input.Name,
		Description:    input.Description,
		EntryFee:       input.EntryFee,
		RefereeFee:     input.RefereeFee,
		YellowCardFine: input.YellowCardFine,
		RedCardFine:    input.RedCardFine,
		PrizeFirst:     input.PrizeFirst,
		PrizeSecond:    input.PrizeSecond,
		PrizeThird:     input.PrizeThird,
		PrizeFourth:    input.PrizeFourth,

		YellowCardLimit:          s.defaults.YellowCardLimit,
		RedCardSuspensionMatches: s.defaults.RedCardSuspensionMatches,
		AbsenceLimit:             s.defaults.AbsenceLimit,
	}
	if input.YellowCardLimit != nil {
		category.YellowCardLimit = *input.YellowCardLimit
	}
	if input.RedCardSuspensionMatches != nil {
		category.RedCardSuspensionMatches = *input.RedCardSuspensionMatches
	}
	if input.AbsenceLimit != nil {
		category.AbsenceLimit = *input.AbsenceLimit
	}
	return category, nil
}

func (s *categoryService) populateLogoURL(category *models.Category) {
	if category == nil || category.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*category.LogoKey)
	category.LogoURL = &url
}
