package models

import "time"

// WalkoverReason explains a default win.
type WalkoverReason string

const (
	WalkoverAbsence    WalkoverReason = "absence"
	WalkoverWithdrawal WalkoverReason = "withdrawal"
	WalkoverSanction   WalkoverReason = "sanction"
)

// Match is a single fixture. Group-stage matches carry a MatchDay;
// knockout matches carry a PhaseID and the Knockout flag. A completed
// match is immutable except for administrative correction, which goes
// through the same completion path so standings are recomputed.
type Match struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	PhaseID      *int `json:"phase_id,omitempty" db:"phase_id"`
	MatchDay     *int `json:"match_day,omitempty" db:"match_day"`

	HomeTeamID int  `json:"home_team_id" db:"home_team_id"`
	AwayTeamID int  `json:"away_team_id" db:"away_team_id"`
	RefereeID  *int `json:"referee_id,omitempty" db:"referee_id"`

	KickoffAt time.Time `json:"kickoff_at" db:"kickoff_at"`
	Venue     *string   `json:"venue,omitempty" db:"venue"`

	Completed bool `json:"completed" db:"completed"`
	HomeGoals int  `json:"home_goals" db:"home_goals"`
	AwayGoals int  `json:"away_goals" db:"away_goals"`

	// Knockout resolution.
	Knockout      bool `json:"knockout" db:"knockout"`
	HomePenalties *int `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPenalties *int `json:"away_penalties,omitempty" db:"away_penalties"`

	// Walkover bookkeeping. At most one side can be absent with a
	// recorded result; both sides absent voids the fixture.
	HomeAbsent     bool            `json:"home_absent" db:"home_absent"`
	AwayAbsent     bool            `json:"away_absent" db:"away_absent"`
	WalkoverReason *WalkoverReason `json:"walkover_reason,omitempty" db:"walkover_reason"`

	// Referee fee collection per side.
	HomeRefereePaid bool `json:"home_referee_paid" db:"home_referee_paid"`
	AwayRefereePaid bool `json:"away_referee_paid" db:"away_referee_paid"`

	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	HomeTeam *Team    `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team    `json:"away_team,omitempty" db:"-"`
	Referee  *Referee `json:"referee,omitempty" db:"-"`
	Goals    []Goal   `json:"goals,omitempty" db:"-"`
	Cards    []Card   `json:"cards,omitempty" db:"-"`
}

// WinnerTeamID resolves the winner of a completed match. Penalties
// break knockout draws; a drawn group-stage match has no winner and
// returns nil.
func (m *Match) WinnerTeamID() *int {
	if !m.Completed {
		return nil
	}
	switch {
	case m.HomeGoals > m.AwayGoals:
		return &m.HomeTeamID
	case m.AwayGoals > m.HomeGoals:
		return &m.AwayTeamID
	}
	if m.Knockout && m.HomePenalties != nil && m.AwayPenalties != nil {
		if *m.HomePenalties > *m.AwayPenalties {
			return &m.HomeTeamID
		}
		if *m.AwayPenalties > *m.HomePenalties {
			return &m.AwayTeamID
		}
	}
	return nil
}

func (m *Match) IsGroupStage() bool {
	return m.PhaseID == nil
}

// Involves reports whether the team plays in this match.
func (m *Match) Involves(teamID int) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}
