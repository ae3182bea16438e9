package models

import "time"

// TeamStanding is the persisted per-team aggregate for a tournament.
// It is derived data: every value must be re-derivable by replaying
// the team's completed matches, and the match completion transaction
// rewrites it from source on every result.
type TeamStanding struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	TeamID       int    `json:"team_id" db:"team_id"`
	GroupCode    string `json:"group_code" db:"group_code"`

	Played         int `json:"played" db:"played"`
	Won            int `json:"won" db:"won"`
	Drawn          int `json:"drawn" db:"drawn"`
	Lost           int `json:"lost" db:"lost"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`

	YellowCards int `json:"yellow_cards" db:"yellow_cards"`
	RedCards    int `json:"red_cards" db:"red_cards"`

	Rank      *int      `json:"rank,omitempty" db:"rank"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
