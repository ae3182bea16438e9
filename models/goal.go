package models

import "time"

type Goal struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	Minute   *int `json:"minute,omitempty" db:"minute"`
	OwnGoal  bool `json:"own_goal" db:"own_goal"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Player *Player `json:"player,omitempty" db:"-"`
}
