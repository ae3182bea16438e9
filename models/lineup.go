package models

// LineupEntry registers a player as fielded in a match. Lineups are
// validated against eligibility before being stored: a suspended
// player is rejected, never silently dropped.
type LineupEntry struct {
	ID       int  `json:"id" db:"id"`
	MatchID  int  `json:"match_id" db:"match_id"`
	PlayerID int  `json:"player_id" db:"player_id"`
	TeamID   int  `json:"team_id" db:"team_id"`
	Starter  bool `json:"starter" db:"starter"`

	Player *Player `json:"player,omitempty" db:"-"`
}
