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
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

// MatchFilter narrows ListByTournament. Nil fields are skipped.
type MatchFilter struct {
	PhaseID    *int
	MatchDay   *int
	TeamID     *int
	Completed  *bool
	GroupStage bool // only matches without a phase
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	ListCompletedByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	Complete(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateRefereePaid(ctx context.Context, exec SQLExecutor, id int, homePaid, awayPaid bool) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, phase_id, match_day, home_team_id, away_team_id, referee_id,
	kickoff_at, venue, completed, home_goals, away_goals, knockout,
	home_penalties, away_penalties, home_absent, away_absent, walkover_reason,
	home_referee_paid, away_referee_paid, notes, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, phase_id, match_day, home_team_id, away_team_id, referee_id,
			 kickoff_at, venue, knockout, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		m.TournamentID, m.PhaseID, m.MatchDay, m.HomeTeamID, m.AwayTeamID, m.RefereeID,
		m.KickoffAt, m.Venue, m.Knockout, m.Notes,
	).Scan(&m.ID, &m.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrMatchTeamInvalid
	}
	return err
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2
	appendArg := func(clause string, value interface{}) {
		queryBuilder.WriteString(clause)
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		args = append(args, value)
		placeholder++
	}

	if filter.PhaseID != nil {
		appendArg(" AND phase_id = $", *filter.PhaseID)
	}
	if filter.GroupStage {
		queryBuilder.WriteString(" AND phase_id IS NULL")
	}
	if filter.MatchDay != nil {
		appendArg(" AND match_day = $", *filter.MatchDay)
	}
	if filter.Completed != nil {
		appendArg(" AND completed = $", *filter.Completed)
	}
	if filter.TeamID != nil {
		queryBuilder.WriteString(" AND (home_team_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		queryBuilder.WriteString(" OR away_team_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholder))
		queryBuilder.WriteString(")")
		args = append(args, *filter.TeamID)
		placeholder++
	}

	queryBuilder.WriteString(" ORDER BY kickoff_at ASC, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *postgresMatchRepository) ListCompletedByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE completed = TRUE AND (home_team_id = $1 OR away_team_id = $1)
		ORDER BY kickoff_at ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *postgresMatchRepository) Update(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches SET
			match_day = $1, referee_id = $2, kickoff_at = $3, venue = $4, notes = $5
		WHERE id = $6 AND completed = FALSE`
	result, err := r.db.ExecContext(ctx, query,
		m.MatchDay, m.RefereeID, m.KickoffAt, m.Venue, m.Notes, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// Complete writes the result fields. Called inside the completion
// transaction together with the standings rewrite so the two can never
// diverge.
func (r *postgresMatchRepository) Complete(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			completed = $1, home_goals = $2, away_goals = $3,
			home_penalties = $4, away_penalties = $5,
			home_absent = $6, away_absent = $7, walkover_reason = $8, notes = $9
		WHERE id = $10`
	result, err := executor.ExecContext(ctx, query,
		m.Completed, m.HomeGoals, m.AwayGoals,
		m.HomePenalties, m.AwayPenalties,
		m.HomeAbsent, m.AwayAbsent, m.WalkoverReason, m.Notes, m.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateRefereePaid(ctx context.Context, exec SQLExecutor, id int, homePaid, awayPaid bool) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET home_referee_paid = $1, away_referee_paid = $2 WHERE id = $3`,
		homePaid, awayPaid, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1 AND completed = FALSE`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.PhaseID, &m.MatchDay, &m.HomeTeamID, &m.AwayTeamID, &m.RefereeID,
		&m.KickoffAt, &m.Venue, &m.Completed, &m.HomeGoals, &m.AwayGoals, &m.Knockout,
		&m.HomePenalties, &m.AwayPenalties, &m.HomeAbsent, &m.AwayAbsent, &m.WalkoverReason,
		&m.HomeRefereePaid, &m.AwayRefereePaid, &m.Notes, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}
