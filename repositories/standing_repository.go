package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/goolstar/goolstar-api/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, standing *models.TeamStanding) error
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []*models.TeamStanding) error
	ListByTournament(ctx context.Context, tournamentID int, groupCode *string) ([]*models.TeamStanding, error)
	GetByTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TeamStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const standingColumns = `
	id, tournament_id, team_id, group_code,
	played, won, drawn, lost, goals_for, goals_against, goal_difference, points,
	yellow_cards, red_cards, rank, updated_at`

// Upsert rewrites one team's row from a freshly computed table.
// The (tournament_id, team_id) pair is unique, so replays are
// idempotent.
func (r *postgresStandingRepository) Upsert(ctx context.Context, exec SQLExecutor, s *models.TeamStanding) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO team_standings
			(tournament_id, team_id, group_code,
			 played, won, drawn, lost, goals_for, goals_against, goal_difference, points,
			 yellow_cards, red_cards, rank, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (tournament_id, team_id) DO UPDATE SET
			group_code = EXCLUDED.group_code,
			played = EXCLUDED.played, won = EXCLUDED.won,
			drawn = EXCLUDED.drawn, lost = EXCLUDED.lost,
			goals_for = EXCLUDED.goals_for, goals_against = EXCLUDED.goals_against,
			goal_difference = EXCLUDED.goal_difference, points = EXCLUDED.points,
			yellow_cards = EXCLUDED.yellow_cards, red_cards = EXCLUDED.red_cards,
			rank = EXCLUDED.rank, updated_at = NOW()
		RETURNING id, updated_at`

	return executor.QueryRowContext(ctx, query,
		s.TournamentID, s.TeamID, s.GroupCode,
		s.Played, s.Won, s.Drawn, s.Lost, s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points,
		s.YellowCards, s.RedCards, s.Rank,
	).Scan(&s.ID, &s.UpdatedAt)
}

func (r *postgresStandingRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID int, standings []*models.TeamStanding) error {
	executor := r.getExecutor(exec)
	keep := make([]interface{}, 0, len(standings)+1)
	keep = append(keep, tournamentID)

	var placeholders strings.Builder
	for i, s := range standings {
		if err := r.Upsert(ctx, exec, s); err != nil {
			return err
		}
		if i > 0 {
			placeholders.WriteString(", ")
		}
		placeholders.WriteString("$")
		placeholders.WriteString(strconv.Itoa(i + 2))
		keep = append(keep, s.TeamID)
	}

	// Drop rows for teams no longer in the table (removed or regrouped).
	query := `DELETE FROM team_standings WHERE tournament_id = $1`
	if len(standings) > 0 {
		query += ` AND team_id NOT IN (` + placeholders.String() + `)`
	}
	_, err := executor.ExecContext(ctx, query, keep...)
	return err
}

func (r *postgresStandingRepository) ListByTournament(ctx context.Context, tournamentID int, groupCode *string) ([]*models.TeamStanding, error) {
	query := `SELECT ` + standingColumns + ` FROM team_standings WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if groupCode != nil {
		query += ` AND group_code = $2`
		args = append(args, *groupCode)
	}
	query += ` ORDER BY group_code ASC, rank ASC NULLS LAST, team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]*models.TeamStanding, 0)
	for rows.Next() {
		s, err := scanStanding(rows)
		if err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

func (r *postgresStandingRepository) GetByTeam(ctx context.Context, exec SQLExecutor, tournamentID, teamID int) (*models.TeamStanding, error) {
	executor := r.getExecutor(exec)
	row := executor.QueryRowContext(ctx,
		`SELECT `+standingColumns+` FROM team_standings WHERE tournament_id = $1 AND team_id = $2`,
		tournamentID, teamID)
	return scanStanding(row)
}

func scanStanding(rowScanner interface{ Scan(...interface{}) error }) (*models.TeamStanding, error) {
	var s models.TeamStanding
	err := rowScanner.Scan(
		&s.ID, &s.TournamentID, &s.TeamID, &s.GroupCode,
		&s.Played, &s.Won, &s.Drawn, &s.Lost, &s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points,
		&s.YellowCards, &s.RedCards, &s.Rank, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, err
	}
	return &s, nil
}
