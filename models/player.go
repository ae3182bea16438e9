package models

import "time"

type Player struct {
	ID        int     `json:"id" db:"id"`
	TeamID    int     `json:"team_id" db:"team_id"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	Document  string  `json:"document" db:"document"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`

	// Unique within the team.
	JerseyNumber int     `json:"jersey_number" db:"jersey_number"`
	Position     *string `json:"position,omitempty" db:"position"`

	// Suspension state, derived from cards but persisted so lineup
	// validation does not replay history on every request. The
	// eligibility engine can always rebuild these two columns.
	Suspended                  bool `json:"suspended" db:"suspended"`
	SuspensionMatchesRemaining int  `json:"suspension_matches_remaining" db:"suspension_matches_remaining"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}

func (p *Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
