package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrLineupEntryConflict = errors.New("player already in match lineup")
	ErrLineupEntryInvalid  = errors.New("lineup player or match invalid")
)

type LineupRepository interface {
	ReplaceForTeam(ctx context.Context, exec SQLExecutor, matchID, teamID int, entries []*models.LineupEntry) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.LineupEntry, error)
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForTeam swaps one team's lineup for a match atomically.
// Lineups are resubmitted whole, not patched entry by entry.
func (r *postgresLineupRepository) ReplaceForTeam(ctx context.Context, exec SQLExecutor, matchID, teamID int, entries []*models.LineupEntry) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx,
		`DELETE FROM lineup_entries WHERE match_id = $1 AND team_id = $2`,
		matchID, teamID); err != nil {
		return err
	}

	query := `
		INSERT INTO lineup_entries (match_id, player_id, team_id, starter)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	for _, e := range entries {
		err := executor.QueryRowContext(ctx, query,
			matchID, e.PlayerID, teamID, e.Starter,
		).Scan(&e.ID)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch pqErr.Code {
				case "23505":
					return ErrLineupEntryConflict
				case "23503":
					return ErrLineupEntryInvalid
				}
			}
			return err
		}
		e.MatchID = matchID
		e.TeamID = teamID
	}
	return nil
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.LineupEntry, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT id, match_id, player_id, team_id, starter FROM lineup_entries WHERE match_id = $1 ORDER BY team_id ASC, id ASC`,
		matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*models.LineupEntry, 0)
	for rows.Next() {
		var e models.LineupEntry
		if err := rows.Scan(&e.ID, &e.MatchID, &e.PlayerID, &e.TeamID, &e.Starter); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
