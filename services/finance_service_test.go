package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/models"
)

type financeFixture struct {
	svc          FinanceService
	mockTx       func()
	transactions *fakeTransactionRepo
	cards        *fakeCardRepo
	matches      *fakeMatchRepo
	players      *fakePlayerRepo
	teams        *fakeTeamRepo
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()
	db, mock := newMockDB(t)
	f := &financeFixture{
		transactions: &fakeTransactionRepo{},
		cards:        newFakeCardRepo(),
		matches:      newFakeMatchRepo(),
		players:      newFakePlayerRepo(),
		teams:        newFakeTeamRepo(),
	}
	f.svc = NewFinanceService(db, f.transactions, f.cards, f.matches, f.players, f.teams, testLogger())
	f.mockTx = func() { expectTx(mock) }
	return f
}

func TestRecordPayment(t *testing.T) {
	f := newFinanceFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})

	got, err := f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID:  1,
		Type:    models.TransactionEntryFeePayment,
		Amount:  50000,
		Credit:  true,
		Concept: "entry fee, first installment",
		Method:  models.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.False(t, got.Automatic)

	balance, err := f.svc.TeamBalance(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance.Credits)
	assert.Equal(t, int64(50000), balance.Balance)
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFinanceFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})

	_, err := f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID: 1, Type: models.TransactionEntryFeePayment, Concept: "x",
	})
	assert.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID: 1, Type: models.TransactionEntryFeePayment, Amount: 100,
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID: 1, Type: models.TransactionType("bribe"), Amount: 100, Concept: "x",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID: 9, Type: models.TransactionEntryFeePayment, Amount: 100, Concept: "x",
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestPayCardFine(t *testing.T) {
	f := newFinanceFixture(t)
	f.players.add(&models.Player{ID: 1, TeamID: 2, FirstName: "Iván", LastName: "Rojas"})
	card := f.cards.add(&models.Card{
		ID: 1, MatchID: 10, PlayerID: 1,
		Type: models.CardYellow, FineAmount: 5000,
	})

	f.mockTx()
	got, err := f.svc.PayCardFine(context.Background(), card.ID, models.PaymentCash, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TeamID)
	assert.Equal(t, int64(5000), got.Amount)
	assert.True(t, got.Credit)
	assert.Equal(t, models.TransactionYellowCardFine, got.Type)

	paid, err := f.cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaidAt)

	// Second settlement of the same fine is rejected.
	_, err = f.svc.PayCardFine(context.Background(), card.ID, models.PaymentCash, nil)
	assert.ErrorIs(t, err, ErrCardAlreadyPaid)

	_, err = f.svc.PayCardFine(context.Background(), 99, models.PaymentCash, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPayCardFineWithoutFine(t *testing.T) {
	f := newFinanceFixture(t)
	f.players.add(&models.Player{ID: 1, TeamID: 2, FirstName: "Iván", LastName: "Rojas"})
	card := f.cards.add(&models.Card{ID: 1, MatchID: 10, PlayerID: 1, Type: models.CardYellow})

	_, err := f.svc.PayCardFine(context.Background(), card.ID, models.PaymentCash, nil)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func (f *financeFixture) seedRefereeMatch() *models.Match {
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})
	f.teams.add(&models.Team{ID: 2, Name: "Deportivo Sur", TournamentID: 1, Active: true})
	refereeID := 7
	match := f.matches.add(&models.Match{
		ID: 10, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		RefereeID: &refereeID,
		KickoffAt: time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC),
	})
	for _, teamID := range []int{1, 2} {
		_ = f.transactions.CreateRefereePayment(context.Background(), nil, &models.RefereePayment{
			RefereeID: refereeID, MatchID: match.ID, TeamID: teamID, Amount: 10000,
		})
	}
	return match
}

func TestCollectRefereeFee(t *testing.T) {
	f := newFinanceFixture(t)
	match := f.seedRefereeMatch()

	f.mockTx()
	got, err := f.svc.CollectRefereeFee(context.Background(), match.ID, 1, models.PaymentCash)
	require.NoError(t, err)
	assert.True(t, got.Credit)
	assert.Equal(t, int64(10000), got.Amount)
	assert.Equal(t, models.TransactionRefereeFee, got.Type)

	stored, err := f.matches.GetByID(context.Background(), nil, match.ID)
	require.NoError(t, err)
	assert.True(t, stored.HomeRefereePaid)
	assert.False(t, stored.AwayRefereePaid)

	// The same side cannot pay twice.
	_, err = f.svc.CollectRefereeFee(context.Background(), match.ID, 1, models.PaymentCash)
	assert.ErrorIs(t, err, ErrPaymentAlreadyMade)

	// The other side settles independently.
	f.mockTx()
	_, err = f.svc.CollectRefereeFee(context.Background(), match.ID, 2, models.PaymentCash)
	require.NoError(t, err)

	unpaid, err := f.svc.RefereePayments(context.Background(), 7, true)
	require.NoError(t, err)
	assert.Empty(t, unpaid)
}

func TestCollectRefereeFeeValidation(t *testing.T) {
	f := newFinanceFixture(t)
	match := f.seedRefereeMatch()

	_, err := f.svc.CollectRefereeFee(context.Background(), 99, 1, models.PaymentCash)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CollectRefereeFee(context.Background(), match.ID, 42, models.PaymentCash)
	assert.ErrorIs(t, err, ErrTeamNotInMatch)

	noRef := f.matches.add(&models.Match{
		ID: 11, TournamentID: 1, HomeTeamID: 1, AwayTeamID: 2,
		KickoffAt: match.KickoffAt.Add(time.Hour),
	})
	_, err = f.svc.CollectRefereeFee(context.Background(), noRef.ID, 1, models.PaymentCash)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestDeleteTransaction(t *testing.T) {
	f := newFinanceFixture(t)
	f.teams.add(&models.Team{ID: 1, Name: "Atlético Norte", TournamentID: 1, Active: true})

	manual, err := f.svc.RecordPayment(context.Background(), PaymentInput{
		TeamID: 1, Type: models.TransactionManualAdjust, Amount: 100, Credit: true,
		Concept: "correction", Method: models.PaymentCash,
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteTransaction(context.Background(), manual.ID))

	// Automatic ledger entries are immutable.
	auto := &models.Transaction{TeamID: 1, Type: models.TransactionRefereeFee, Amount: 100, Automatic: true}
	require.NoError(t, f.transactions.Create(context.Background(), nil, auto))
	err = f.svc.DeleteTransaction(context.Background(), auto.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.DeleteTransaction(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
