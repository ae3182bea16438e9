package models

import "time"

type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// Card is a disciplinary event issued to a player during a match.
// Cards accumulate against the player for suspensions and against the
// team as unpaid fines.
type Card struct {
	ID       int      `json:"id" db:"id"`
	MatchID  int      `json:"match_id" db:"match_id"`
	PlayerID int      `json:"player_id" db:"player_id"`
	Type     CardType `json:"type" db:"type"`
	Minute   *int     `json:"minute,omitempty" db:"minute"`
	Reason   *string  `json:"reason,omitempty" db:"reason"`

	// Fine collection. Amount in cents, fixed by the category at the
	// time the card is issued.
	FineAmount int64      `json:"fine_amount" db:"fine_amount"`
	Paid       bool       `json:"paid" db:"paid"`
	PaidAt     *time.Time `json:"paid_at,omitempty" db:"paid_at"`

	// Set once the card has been counted toward a served suspension,
	// so yellows are not counted twice across accumulation windows.
	SuspensionServed bool `json:"suspension_served" db:"suspension_served"`

	IssuedAt time.Time `json:"issued_at" db:"issued_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
