package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalPlayerInvalid = errors.New("goal player or match invalid")
)

type GoalRepository interface {
	Create(ctx context.Context, exec SQLExecutor, goal *models.Goal) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Goal, error)
	CountByPlayer(ctx context.Context, tournamentID int) ([]*models.ScorerEntry, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGoalRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Goal) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO goals (match_id, player_id, minute, own_goal)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		g.MatchID, g.PlayerID, g.Minute, g.OwnGoal,
	).Scan(&g.ID, &g.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrGoalPlayerInvalid
	}
	return err
}

func (r *postgresGoalRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Goal, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, player_id, minute, own_goal, created_at
		FROM goals
		WHERE match_id = $1
		ORDER BY minute ASC NULLS LAST, id ASC`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.MatchID, &g.PlayerID, &g.Minute, &g.OwnGoal, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}

// CountByPlayer produces the tournament scorer table. Own goals do not
// count for the scorer.
func (r *postgresGoalRepository) CountByPlayer(ctx context.Context, tournamentID int) ([]*models.ScorerEntry, error) {
	query := `
		SELECT g.player_id, p.first_name, p.last_name, p.team_id, t.name, COUNT(*) AS goals
		FROM goals g
		JOIN matches m ON m.id = g.match_id
		JOIN players p ON p.id = g.player_id
		JOIN teams t ON t.id = p.team_id
		WHERE m.tournament_id = $1 AND m.completed = TRUE AND g.own_goal = FALSE
		GROUP BY g.player_id, p.first_name, p.last_name, p.team_id, t.name
		ORDER BY goals DESC, p.last_name ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.ScorerEntry, 0)
	for rows.Next() {
		var e models.ScorerEntry
		var firstName, lastName string
		if err := rows.Scan(&e.PlayerID, &firstName, &lastName, &e.TeamID, &e.TeamName, &e.Goals); err != nil {
			return nil, err
		}
		e.PlayerName = firstName + " " + lastName
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *postgresGoalRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}

func (r *postgresGoalRepository) DeleteByMatch(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM goals WHERE match_id = $1`, matchID)
	return err
}
