package models

import "time"

// TournamentStage mirrors the stage ENUM in the database.
type TournamentStage string

const (
	StageRegistration TournamentStage = "registration"
	StageGroups       TournamentStage = "groups"
	StageKnockout     TournamentStage = "knockout"
	StageFinished     TournamentStage = "finished"
	StageCanceled     TournamentStage = "canceled"
)

type Tournament struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	CategoryID  int     `json:"category_id" db:"category_id"`
	OrganizerID int     `json:"organizer_id" db:"organizer_id"`

	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	Location  *string    `json:"location,omitempty" db:"location"`

	Stage TournamentStage `json:"stage" db:"stage"`

	// Group stage layout.
	GroupCount       int `json:"group_count" db:"group_count"`
	QualifyPerGroup  int `json:"qualify_per_group" db:"qualify_per_group"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"-"`

	// Optional linked data, populated by services.
	Category  *Category `json:"category,omitempty" db:"-"`
	Organizer *User     `json:"organizer,omitempty" db:"-"`
	Teams     []Team    `json:"teams,omitempty" db:"-"`
	Matches   []Match   `json:"matches,omitempty" db:"-"`
	Phases    []Phase   `json:"phases,omitempty" db:"-"`
}
