package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goolstar/goolstar-api/models"
	"github.com/goolstar/goolstar-api/repositories"
)

type FinanceService interface {
	RecordPayment(ctx context.Context, input PaymentInput) (*models.Transaction, error)
	TeamLedger(ctx context.Context, teamID int) ([]*models.Transaction, error)
	TeamBalance(ctx context.Context, teamID int) (*models.TeamBalance, error)
	PayCardFine(ctx context.Context, cardID int, method models.PaymentMethod, reference *string) (*models.Transaction, error)
	CollectRefereeFee(ctx context.Context, matchID, teamID int, method models.PaymentMethod) (*models.Transaction, error)
	RefereePayments(ctx context.Context, refereeID int, unpaidOnly bool) ([]*models.RefereePayment, error)
	DeleteTransaction(ctx context.Context, id int) error
}

type PaymentInput struct {
	TeamID    int                    `json:"team_id"`
	Type      models.TransactionType `json:"type"`
	Amount    int64                  `json:"amount"`
	Credit    bool                   `json:"credit"`
	Concept   string                 `json:"concept"`
	Method    models.PaymentMethod   `json:"method"`
	Reference *string                `json:"reference"`
}

type financeService struct {
	db              *sql.DB
	transactionRepo repositories.TransactionRepository
	cardRepo        repositories.CardRepository
	matchRepo       repositories.MatchRepository
	playerRepo      repositories.PlayerRepository
	teamRepo        repositories.TeamRepository
	logger          *slog.Logger
}

func NewFinanceService(
	db *sql.DB,
	transactionRepo repositories.TransactionRepository,
	cardRepo repositories.CardRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) FinanceService {
	return &financeService{
		db:              db,
		transactionRepo: transactionRepo,
		cardRepo:        cardRepo,
		matchRepo:       matchRepo,
		playerRepo:      playerRepo,
		teamRepo:        teamRepo,
		logger:          logger,
	}
}

func (s *financeService) RecordPayment(ctx context.Context, input PaymentInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}
	if input.Concept == "" {
		return nil, fmt.Errorf("%w: payment concept is required", ErrValidationFailed)
	}
	switch input.Type {
	case models.TransactionEntryFeePayment, models.TransactionRefereeFee,
		models.TransactionYellowCardFine, models.TransactionRedCardFine,
		models.TransactionManualAdjust, models.TransactionRefund:
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrValidationFailed, input.Type)
	}
	if _, err := s.teamRepo.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, input.TeamID)
		}
		return nil, err
	}

	transaction := &models.Transaction{
		TeamID:    input.TeamID,
		Type:      input.Type,
		Amount:    input.Amount,
		Credit:    input.Credit,
		Concept:   input.Concept,
		Method:    input.Method,
		Reference: input.Reference,
	}
	if err := s.transactionRepo.Create(ctx, nil, transaction); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("payment recorded",
		slog.Int("team_id", input.TeamID),
		slog.String("type", string(input.Type)),
		slog.Int64("amount", input.Amount),
		slog.Bool("credit", input.Credit))
	return transaction, nil
}

func (s *financeService) TeamLedger(ctx context.Context, teamID int) ([]*models.Transaction, error) {
	return s.transactionRepo.ListByTeam(ctx, teamID)
}

func (s *financeService) TeamBalance(ctx context.Context, teamID int) (*models.TeamBalance, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.transactionRepo.TeamBalance(ctx, teamID)
}

// PayCardFine settles one card's fine: the card is marked paid and a
// credit lands on the team ledger, both in one transaction.
func (s *financeService) PayCardFine(ctx context.Context, cardID int, method models.PaymentMethod, reference *string) (*models.Transaction, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrCardNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if card.Paid {
		return nil, ErrCardAlreadyPaid
	}
	if card.FineAmount <= 0 {
		return nil, fmt.Errorf("%w: card %d carries no fine", ErrValidationFailed, cardID)
	}

	player, err := s.playerRepo.GetByID(ctx, card.PlayerID)
	if err != nil {
		return nil, err
	}

	txType := models.TransactionYellowCardFine
	if card.Type == models.CardRed {
		txType = models.TransactionRedCardFine
	}
	payment := &models.Transaction{
		TeamID:    player.TeamID,
		MatchID:   &card.MatchID,
		CardID:    &card.ID,
		Type:      txType,
		Amount:    card.FineAmount,
		Credit:    true,
		Concept:   fmt.Sprintf("%s card fine paid, player %s", card.Type, player.FullName()),
		Method:    method,
		Reference: reference,
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.cardRepo.MarkPaid(ctx, tx, cardID, time.Now()); err != nil {
			if errors.Is(err, repositories.ErrCardNotFound) {
				return ErrCardAlreadyPaid
			}
			return err
		}
		return s.transactionRepo.Create(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// CollectRefereeFee records one side's referee fee as received and
// flips the per-side flag on the match.
func (s *financeService) CollectRefereeFee(ctx context.Context, matchID, teamID int, method models.PaymentMethod) (*models.Transaction, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !match.Involves(teamID) {
		return nil, ErrTeamNotInMatch
	}
	if match.RefereeID == nil {
		return nil, fmt.Errorf("%w: match %d has no referee", ErrValidationFailed, matchID)
	}

	homePaid, awayPaid := match.HomeRefereePaid, match.AwayRefereePaid
	if match.HomeTeamID == teamID {
		if homePaid {
			return nil, ErrPaymentAlreadyMade
		}
		homePaid = true
	} else {
		if awayPaid {
			return nil, ErrPaymentAlreadyMade
		}
		awayPaid = true
	}

	payments, err := s.transactionRepo.ListRefereePayments(ctx, *match.RefereeID, true)
	if err != nil {
		return nil, err
	}
	var due *models.RefereePayment
	for _, p := range payments {
		if p.MatchID == matchID && p.TeamID == teamID {
			due = p
			break
		}
	}
	if due == nil {
		return nil, fmt.Errorf("%w: no unpaid referee fee for team %d in match %d", ErrValidationFailed, teamID, matchID)
	}

	credit := &models.Transaction{
		TeamID:  teamID,
		MatchID: &matchID,
		Type:    models.TransactionRefereeFee,
		Amount:  due.Amount,
		Credit:  true,
		Concept: fmt.Sprintf("referee fee collected, match %d", matchID),
		Method:  method,
	}

	err = runInTransaction(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.transactionRepo.MarkRefereePaymentPaid(ctx, tx, due.ID, time.Now()); err != nil {
			return err
		}
		if err := s.matchRepo.UpdateRefereePaid(ctx, tx, matchID, homePaid, awayPaid); err != nil {
			return err
		}
		return s.transactionRepo.Create(ctx, tx, credit)
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

func (s *financeService) RefereePayments(ctx context.Context, refereeID int, unpaidOnly bool) ([]*models.RefereePayment, error) {
	return s.transactionRepo.ListRefereePayments(ctx, refereeID, unpaidOnly)
}

func (s *financeService) DeleteTransaction(ctx context.Context, id int) error {
	err := s.transactionRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return ErrNotFound
	}
	return err
}
