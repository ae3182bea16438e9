package models

import "time"

// PhaseState is the lifecycle of a knockout phase. A phase becomes
// in_progress when its slot matches are created and completed when
// every slot match has been played.
type PhaseState string

const (
	PhasePending    PhaseState = "pending"
	PhaseInProgress PhaseState = "in_progress"
	PhaseCompleted  PhaseState = "completed"
)

// Phase is one knockout round of a tournament (round of 16, quarter
// finals, ...). Order is 1-based starting at the first knockout round.
type Phase struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Order        int        `json:"order" db:"phase_order"`
	State        PhaseState `json:"state" db:"state"`
	StartDate    *time.Time `json:"start_date,omitempty" db:"start_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	Slots []BracketSlot `json:"slots,omitempty" db:"-"`
}
