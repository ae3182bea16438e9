package models

// TournamentStats is the summary block served by the tournament stats
// endpoint.
type TournamentStats struct {
	TournamentID   int `json:"tournament_id"`
	TeamCount      int `json:"team_count"`
	MatchesPlayed  int `json:"matches_played"`
	MatchesPending int `json:"matches_pending"`
	GoalsScored    int `json:"goals_scored"`
	YellowCards    int `json:"yellow_cards"`
	RedCards       int `json:"red_cards"`

	TopScorers []ScorerEntry `json:"top_scorers,omitempty"`
}

// ScorerEntry is one row of the top-scorers table.
type ScorerEntry struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	Goals      int    `json:"goals"`
}
