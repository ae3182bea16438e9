package models

import "time"

type TransactionType string

const (
	TransactionEntryFeePayment TransactionType = "entry_fee_payment"
	TransactionRefereeFee      TransactionType = "referee_fee"
	TransactionYellowCardFine  TransactionType = "yellow_card_fine"
	TransactionRedCardFine     TransactionType = "red_card_fine"
	TransactionManualAdjust    TransactionType = "manual_adjust"
	TransactionRefund          TransactionType = "refund"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentDeposit  PaymentMethod = "deposit"
	PaymentCard     PaymentMethod = "card"
)

// Transaction is one entry in a team's financial ledger. Amount is in
// cents and always positive; Credit tells the direction (true means
// money received from the team, false means a charge against it).
// Balance = sum(credits) - sum(debits).
type Transaction struct {
	ID      int             `json:"id" db:"id"`
	TeamID  int             `json:"team_id" db:"team_id"`
	MatchID *int            `json:"match_id,omitempty" db:"match_id"`
	CardID  *int            `json:"card_id,omitempty" db:"card_id"`
	Type    TransactionType `json:"type" db:"type"`
	Amount  int64           `json:"amount" db:"amount"`
	Credit  bool            `json:"credit" db:"credit"`

	Concept   string        `json:"concept" db:"concept"`
	Method    PaymentMethod `json:"method" db:"method"`
	Reference *string       `json:"reference,omitempty" db:"reference"`

	// Set when the ledger entry was produced by the system (card
	// fines, referee fees) rather than recorded by an operator.
	Automatic bool `json:"automatic" db:"automatic"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RefereePayment tracks the per-team share of a referee's match fee.
type RefereePayment struct {
	ID        int        `json:"id" db:"id"`
	RefereeID int        `json:"referee_id" db:"referee_id"`
	MatchID   int        `json:"match_id" db:"match_id"`
	TeamID    int        `json:"team_id" db:"team_id"`
	Amount    int64      `json:"amount" db:"amount"`
	Paid      bool       `json:"paid" db:"paid"`
	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

// TeamBalance is the computed financial position of a team.
type TeamBalance struct {
	TeamID       int             `json:"team_id"`
	Credits      int64           `json:"credits"`
	Debits       int64           `json:"debits"`
	Balance      int64           `json:"balance"`
	UnpaidFines  int64           `json:"unpaid_fines"`
	ByType       map[string]int64 `json:"by_type"`
}
