package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/standings"
	"github.com/lib/pq"
)

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrCardPlayerInvalid = errors.New("card player or match invalid")
)

type CardRepository interface {
	Create(ctx context.Context, exec SQLExecutor, card *models.Card) error
	GetByID(ctx context.Context, id int) (*models.Card, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Card, error)
	ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Card, error)
	ListUnpaidByTeam(ctx context.Context, teamID int) ([]*models.Card, error)
	TallyByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (map[int]standings.CardTally, error)
	MarkPaid(ctx context.Context, exec SQLExecutor, id int, paidAt time.Time) error
	MarkSuspensionServed(ctx context.Context, exec SQLExecutor, ids []int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresCardRepository struct {
	db *sql.DB
}

func NewPostgresCardRepository(db *sql.DB) CardRepository {
	return &postgresCardRepository{db: db}
}

func (r *postgresCardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const cardColumns = `
	id, match_id, player_id, type, minute, reason,
	fine_amount, paid, paid_at, suspension_served, issued_at`

func (r *postgresCardRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Card) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO cards (match_id, player_id, type, minute, reason, fine_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, issued_at`

	err := executor.QueryRowContext(ctx, query,
		c.MatchID, c.PlayerID, c.Type, c.Minute, c.Reason, c.FineAmount,
	).Scan(&c.ID, &c.IssuedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrCardPlayerInvalid
	}
	return err
}

func (r *postgresCardRepository) GetByID(ctx context.Context, id int) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)
	return scanCard(row)
}

func (r *postgresCardRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Card, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE match_id = $1 ORDER BY minute ASC NULLS LAST, id ASC`,
		matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

// ListByPlayer returns every card issued to the player across the
// tournament, joined with the match kickoff so the eligibility replay
// can order them.
func (r *postgresCardRepository) ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Card, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + cardColumns + ` FROM cards
		WHERE player_id = $1
		ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

func (r *postgresCardRepository) ListUnpaidByTeam(ctx context.Context, teamID int) ([]*models.Card, error) {
	query := `
		SELECT ` + cardColumns + ` FROM cards
		WHERE paid = FALSE AND player_id IN (SELECT id FROM players WHERE team_id = $1)
		ORDER BY issued_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

// TallyByTournament counts completed-match cards per team for the
// standings table.
func (r *postgresCardRepository) TallyByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (map[int]standings.CardTally, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT p.team_id,
		       COUNT(*) FILTER (WHERE c.type = 'yellow') AS yellows,
		       COUNT(*) FILTER (WHERE c.type = 'red') AS reds
		FROM cards c
		JOIN matches m ON m.id = c.match_id
		JOIN players p ON p.id = c.player_id
		WHERE m.tournament_id = $1 AND m.completed = TRUE
		GROUP BY p.team_id`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tallies := make(map[int]standings.CardTally)
	for rows.Next() {
		var teamID int
		var count standings.CardTally
		if err := rows.Scan(&teamID, &count.Yellow, &count.Red); err != nil {
			return nil, err
		}
		tallies[teamID] = count
	}
	return tallies, rows.Err()
}

func (r *postgresCardRepository) MarkPaid(ctx context.Context, exec SQLExecutor, id int, paidAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE cards SET paid = TRUE, paid_at = $1 WHERE id = $2 AND paid = FALSE`,
		paidAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCardNotFound)
}

func (r *postgresCardRepository) MarkSuspensionServed(ctx context.Context, exec SQLExecutor, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE cards SET suspension_served = TRUE WHERE id = ANY($1)`,
		pq.Array(ids))
	return err
}

func (r *postgresCardRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCardNotFound)
}

func collectCards(rows *sql.Rows) ([]*models.Card, error) {
	cards := make([]*models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func scanCard(rowScanner interface{ Scan(...interface{}) error }) (*models.Card, error) {
	var c models.Card
	err := rowScanner.Scan(
		&c.ID, &c.MatchID, &c.PlayerID, &c.Type, &c.Minute, &c.Reason,
		&c.FineAmount, &c.Paid, &c.PaidAt, &c.SuspensionServed, &c.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &c, nil
}
