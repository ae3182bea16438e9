package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goolstar/goolstar-api/models"
)

var ErrRefereeNotFound = errors.New("referee not found")

type RefereeRepository interface {
	Create(ctx context.Context, referee *models.Referee) error
	GetByID(ctx context.Context, id int) (*models.Referee, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Referee, error)
	Update(ctx context.Context, referee *models.Referee) error
}

type postgresRefereeRepository struct {
	db *sql.DB
}

func NewPostgresRefereeRepository(db *sql.DB) RefereeRepository {
	return &postgresRefereeRepository{db: db}
}

func (r *postgresRefereeRepository) Create(ctx context.Context, ref *models.Referee) error {
	query := `
		INSERT INTO referees (first_name, last_name, phone, email, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		ref.FirstName, ref.LastName, ref.Phone, ref.Email, ref.Active,
	).Scan(&ref.ID, &ref.CreatedAt)
}

func (r *postgresRefereeRepository) GetByID(ctx context.Context, id int) (*models.Referee, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, phone, email, active, created_at FROM referees WHERE id = $1`, id)
	return scanReferee(row)
}

func (r *postgresRefereeRepository) List(ctx context.Context, activeOnly bool) ([]*models.Referee, error) {
	query := `SELECT id, first_name, last_name, phone, email, active, created_at FROM referees`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referees := make([]*models.Referee, 0)
	for rows.Next() {
		ref, scanErr := scanReferee(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		referees = append(referees, ref)
	}
	return referees, rows.Err()
}

func (r *postgresRefereeRepository) Update(ctx context.Context, ref *models.Referee) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE referees SET first_name = $1, last_name = $2, phone = $3, email = $4, active = $5 WHERE id = $6`,
		ref.FirstName, ref.LastName, ref.Phone, ref.Email, ref.Active, ref.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}

func scanReferee(rowScanner interface{ Scan(...interface{}) error }) (*models.Referee, error) {
	var ref models.Referee
	err := rowScanner.Scan(&ref.ID, &ref.FirstName, &ref.LastName, &ref.Phone, &ref.Email, &ref.Active, &ref.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefereeNotFound
		}
		return nil, err
	}
	return &ref, nil
}
