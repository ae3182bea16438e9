package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goolstar/goolstar-api/models"
	"github.com/lib/pq"
)

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionTeamInvalid = errors.New("transaction team invalid")
	ErrRefereePaymentNotFound = errors.New("referee payment not found")
)

type TransactionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tx *models.Transaction) error
	GetByID(ctx context.Context, id int) (*models.Transaction, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Transaction, error)
	TeamBalance(ctx context.Context, teamID int) (*models.TeamBalance, error)
	Delete(ctx context.Context, id int) error

	CreateRefereePayment(ctx context.Context, exec SQLExecutor, payment *models.RefereePayment) error
	ListRefereePayments(ctx context.Context, refereeID int, unpaidOnly bool) ([]*models.RefereePayment, error)
	MarkRefereePaymentPaid(ctx context.Context, exec SQLExecutor, id int, paidAt time.Time) error
}

type postgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const transactionColumns = `
	id, team_id, match_id, card_id, type, amount, credit,
	concept, method, reference, automatic, created_at`

func (r *postgresTransactionRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Transaction) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO transactions
			(team_id, match_id, card_id, type, amount, credit, concept, method, reference, automatic)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		t.TeamID, t.MatchID, t.CardID, t.Type, t.Amount, t.Credit,
		t.Concept, t.Method, t.Reference, t.Automatic,
	).Scan(&t.ID, &t.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrTransactionTeamInvalid
	}
	return err
}

func (r *postgresTransactionRepository) GetByID(ctx context.Context, id int) (*models.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *postgresTransactionRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE team_id = $1 ORDER BY created_at DESC, id DESC`,
		teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// TeamBalance aggregates the ledger plus the team's unpaid card fines.
func (r *postgresTransactionRepository) TeamBalance(ctx context.Context, teamID int) (*models.TeamBalance, error) {
	balance := &models.TeamBalance{
		TeamID: teamID,
		ByType: make(map[string]int64),
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT type, credit, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE team_id = $1
		GROUP BY type, credit`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var txType string
		var credit bool
		var total int64
		if err := rows.Scan(&txType, &credit, &total); err != nil {
			return nil, err
		}
		if credit {
			balance.Credits += total
			balance.ByType[txType] += total
		} else {
			balance.Debits += total
			balance.ByType[txType] -= total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	balance.Balance = balance.Credits - balance.Debits

	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(c.fine_amount), 0)
		FROM cards c
		JOIN players p ON p.id = c.player_id
		WHERE p.team_id = $1 AND c.paid = FALSE`, teamID).Scan(&balance.UnpaidFines)
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// Delete only removes operator-recorded entries. Automatic entries are
// corrections of record and stay.
func (r *postgresTransactionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND automatic = FALSE`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTransactionNotFound)
}

func (r *postgresTransactionRepository) CreateRefereePayment(ctx context.Context, exec SQLExecutor, p *models.RefereePayment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO referee_payments (referee_id, match_id, team_id, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		p.RefereeID, p.MatchID, p.TeamID, p.Amount,
	).Scan(&p.ID)
}

func (r *postgresTransactionRepository) ListRefereePayments(ctx context.Context, refereeID int, unpaidOnly bool) ([]*models.RefereePayment, error) {
	query := `
		SELECT id, referee_id, match_id, team_id, amount, paid, paid_at
		FROM referee_payments
		WHERE referee_id = $1`
	if unpaidOnly {
		query += ` AND paid = FALSE`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, refereeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*models.RefereePayment, 0)
	for rows.Next() {
		var p models.RefereePayment
		if err := rows.Scan(&p.ID, &p.RefereeID, &p.MatchID, &p.TeamID, &p.Amount, &p.Paid, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

func (r *postgresTransactionRepository) MarkRefereePaymentPaid(ctx context.Context, exec SQLExecutor, id int, paidAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE referee_payments SET paid = TRUE, paid_at = $1 WHERE id = $2 AND paid = FALSE`,
		paidAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRefereePaymentNotFound)
}

func scanTransaction(rowScanner interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := rowScanner.Scan(
		&t.ID, &t.TeamID, &t.MatchID, &t.CardID, &t.Type, &t.Amount, &t.Credit,
		&t.Concept, &t.Method, &t.Reference, &t.Automatic, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}
