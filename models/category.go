package models

import "time"

// Category groups tournaments by roster type (men, women, masters) and
// carries the per-category competition parameters: fees, fines and
// disciplinary thresholds. All money amounts are in cents.
type Category struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`

	EntryFee        int64 `json:"entry_fee" db:"entry_fee"`
	RefereeFee      int64 `json:"referee_fee" db:"referee_fee"`
	YellowCardFine  int64 `json:"yellow_card_fine" db:"yellow_card_fine"`
	RedCardFine     int64 `json:"red_card_fine" db:"red_card_fine"`
	PrizeFirst      int64 `json:"prize_first" db:"prize_first"`
	PrizeSecond     int64 `json:"prize_second" db:"prize_second"`
	PrizeThird      int64 `json:"prize_third" db:"prize_third"`
	PrizeFourth     int64 `json:"prize_fourth" db:"prize_fourth"`

	YellowCardLimit          int `json:"yellow_card_limit" db:"yellow_card_limit"`
	RedCardSuspensionMatches int `json:"red_card_suspension_matches" db:"red_card_suspension_matches"`
	AbsenceLimit             int `json:"absence_limit" db:"absence_limit"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
