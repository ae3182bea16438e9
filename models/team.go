package models

import "time"

type Team struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	CategoryID   int    `json:"category_id" db:"category_id"`

	// Group letter for the group stage (A, B, C, D). Empty before the
	// draw is made.
	GroupCode string `json:"group_code" db:"group_code"`

	CoachName *string `json:"coach_name,omitempty" db:"coach_name"`
	Active    bool    `json:"active" db:"active"`

	// Walkover bookkeeping.
	Absences          int  `json:"absences" db:"absences"`
	ExcludedByAbsence bool `json:"excluded_by_absence" db:"excluded_by_absence"`

	// Knockout progression.
	Qualified        bool    `json:"qualified" db:"qualified"`
	EliminatedInPhase *string `json:"eliminated_in_phase,omitempty" db:"eliminated_in_phase"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players []Player `json:"players,omitempty" db:"-"`
}
