package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameConflict = errors.New("category name already in use")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) CategoryRepository {
	return &postgresCategoryRepository{db: db}
}

const categoryColumns = `
	id, name, description, entry_fee, referee_fee, yellow_card_fine, red_card_fine,
	prize_first, prize_second, prize_third, prize_fourth,
	yellow_card_limit, red_card_suspension_matches, absence_limit, created_at, logo_key`

func (r *postgresCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories
			(name, description, entry_fee, referee_fee, yellow_card_fine, red_card_fine,
			 prize_first, prize_second, prize_third, prize_fourth,
			 yellow_card_limit, red_card_suspension_matches, absence_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Description, c.EntryFee, c.RefereeFee, c.YellowCardFine, c.RedCardFine,
		c.PrizeFirst, c.PrizeSecond, c.PrizeThird, c.PrizeFourth,
		c.YellowCardLimit, c.RedCardSuspensionMatches, c.AbsenceLimit,
	).Scan(&c.ID, &c.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrCategoryNameConflict
	}
	return err
}

func (r *postgresCategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *postgresCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		c, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	query := `
		UPDATE categories SET
			name = $1, description = $2, entry_fee = $3, referee_fee = $4,
			yellow_card_fine = $5, red_card_fine = $6,
			prize_first = $7, prize_second = $8, prize_third = $9, prize_fourth = $10,
			yellow_card_limit = $11, red_card_suspension_matches = $12, absence_limit = $13
		WHERE id = $14`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Description, c.EntryFee, c.RefereeFee, c.YellowCardFine, c.RedCardFine,
		c.PrizeFirst, c.PrizeSecond, c.PrizeThird, c.PrizeFourth,
		c.YellowCardLimit, c.RedCardSuspensionMatches, c.AbsenceLimit, c.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrCategoryNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE categories SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func (r *postgresCategoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCategoryNotFound)
}

func scanCategory(rowScanner interface{ Scan(...interface{}) error }) (*models.Category, error) {
	var c models.Category
	err := rowScanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.EntryFee, &c.RefereeFee, &c.YellowCardFine, &c.RedCardFine,
		&c.PrizeFirst, &c.PrizeSecond, &c.PrizeThird, &c.PrizeFourth,
		&c.YellowCardLimit, &c.RedCardSuspensionMatches, &c.AbsenceLimit, &c.CreatedAt, &c.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}
