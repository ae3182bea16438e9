package models

import "time"

// BracketSlot is one pairing of a knockout phase. Slot numbers are
// 1-based within the phase. A slot with a nil team side is waiting for
// a winner from the previous phase or for a best-loser assignment.
type BracketSlot struct {
	ID         int  `json:"id" db:"id"`
	PhaseID    int  `json:"phase_id" db:"phase_id"`
	SlotNumber int  `json:"slot_number" db:"slot_number"`
	HomeTeamID *int `json:"home_team_id" db:"home_team_id"`
	AwayTeamID *int `json:"away_team_id" db:"away_team_id"`
	MatchID    *int `json:"match_id,omitempty" db:"match_id"`
	Completed  bool `json:"completed" db:"completed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	HomeTeam *Team  `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team  `json:"away_team,omitempty" db:"-"`
	Match    *Match `json:"match,omitempty" db:"-"`
}

// BestLoser is the persisted cross-group ranking entry used to fill
// knockout slots that automatic qualification leaves open.
type BestLoser struct {
	ID             int    `json:"id" db:"id"`
	TournamentID   int    `json:"tournament_id" db:"tournament_id"`
	GroupCode      string `json:"group_code" db:"group_code"`
	TeamID         int    `json:"team_id" db:"team_id"`
	Points         int    `json:"points" db:"points"`
	GoalDifference int    `json:"goal_difference" db:"goal_difference"`
	GoalsFor       int    `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int    `json:"goals_against" db:"goals_against"`
	CrossGroupRank int    `json:"cross_group_rank" db:"cross_group_rank"`

	Team *Team `json:"team,omitempty" db:"-"`
}
