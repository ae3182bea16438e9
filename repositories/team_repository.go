package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already in use for this tournament")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, groupCode *string, activeOnly bool) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateGroupCode(ctx context.Context, exec SQLExecutor, id int, groupCode string) error
	UpdateProgress(ctx context.Context, exec SQLExecutor, team *models.Team) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `
	id, name, tournament_id, category_id, group_code, coach_name, active,
	absences, excluded_by_absence, qualified, eliminated_in_phase, created_at, logo_key`

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO teams (name, tournament_id, category_id, group_code, coach_name, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.TournamentID, t.CategoryID, t.GroupCode, t.CoachName, t.Active,
	).Scan(&t.ID, &t.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrTeamNameConflict
	}
	return err
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	return scanTeam(row)
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int, groupCode *string, activeOnly bool) ([]*models.Team, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if groupCode != nil {
		queryBuilder.WriteString(" AND group_code = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, *groupCode)
		placeholder++
	}
	if activeOnly {
		queryBuilder.WriteString(" AND active = TRUE")
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) Update(ctx context.Context, t *models.Team) error {
	query := `
		UPDATE teams SET name = $1, group_code = $2, coach_name = $3, active = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, t.Name, t.GroupCode, t.CoachName, t.Active, t.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateGroupCode(ctx context.Context, exec SQLExecutor, id int, groupCode string) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE teams SET group_code = $1 WHERE id = $2`, groupCode, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// UpdateProgress persists the walkover counters and knockout
// progression flags, typically inside the match completion or phase
// generation transaction.
func (r *postgresTeamRepository) UpdateProgress(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE teams SET
			active = $1, absences = $2, excluded_by_absence = $3,
			qualified = $4, eliminated_in_phase = $5
		WHERE id = $6`
	result, err := exec.ExecContext(ctx, query,
		t.Active, t.Absences, t.ExcludedByAbsence, t.Qualified, t.EliminatedInPhase, t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.TournamentID, &t.CategoryID, &t.GroupCode, &t.CoachName, &t.Active,
		&t.Absences, &t.ExcludedByAbsence, &t.Qualified, &t.EliminatedInPhase, &t.CreatedAt, &t.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}
