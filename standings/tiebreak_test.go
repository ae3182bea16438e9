package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goolstar/goolstar-api/models"
)

func row(teamID, points, gd, gf int) *models.TeamStanding {
	return &models.TeamStanding{
		TeamID:         teamID,
		Points:         points,
		GoalDifference: gd,
		GoalsFor:       gf,
	}
}

func TestLessIsTotalOrder(t *testing.T) {
	tests := []struct {
		name string
		a, b *models.TeamStanding
		want bool
	}{
		{"points decide", row(2, 9, 0, 1), row(1, 7, 10, 20), true},
		{"difference decides on equal points", row(2, 7, 3, 5), row(1, 7, 2, 9), true},
		{"goals for decide on equal difference", row(2, 7, 2, 5), row(1, 7, 2, 4), true},
		{"team id is the stable fallback", row(1, 7, 2, 4), row(2, 7, 2, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Less(tt.a, tt.b))
			// For distinct teams exactly one direction holds.
			assert.Equal(t, !tt.want, Less(tt.b, tt.a))
		})
	}
}

func TestSortStrictHeadToHead(t *testing.T) {
	// Teams 1 and 2 are level on every numeric key; 2 won their
	// meeting and must rank above despite the higher id.
	rows := []*models.TeamStanding{
		row(1, 6, 2, 6),
		row(2, 6, 2, 6),
		row(3, 1, -4, 2),
	}
	matches := []*models.Match{
		played(1, 2, 1, 1, 0),
	}

	SortStrict(rows, matches)
	assert.Equal(t, 2, rows[0].TeamID)
	assert.Equal(t, 1, rows[1].TeamID)
	assert.Equal(t, 3, rows[2].TeamID)

	// Idempotent: re-running keeps the order.
	SortStrict(rows, matches)
	assert.Equal(t, 2, rows[0].TeamID)
}

func TestSortStrictLevelHeadToHeadFallsBack(t *testing.T) {
	rows := []*models.TeamStanding{
		row(2, 6, 2, 6),
		row(1, 6, 2, 6),
	}
	// Two meetings, one win each: head-to-head is level.
	matches := []*models.Match{
		played(1, 1, 2, 1, 0),
		played(2, 2, 1, 1, 0),
	}

	SortStrict(rows, matches)
	assert.Equal(t, 1, rows[0].TeamID)
}
