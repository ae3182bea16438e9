package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goolstar/goolstar-api/models"
)

func seeds(groups ...string) []Seed {
	out := make([]Seed, len(groups))
	for i, g := range groups {
		out[i] = Seed{TeamID: i + 1, GroupCode: g}
	}
	return out
}

func TestGenerateMirrorPairing(t *testing.T) {
	gen := NewSeededGenerator()
	pairings, err := gen.Generate(context.Background(), GenerateParams{
		Seeds: seeds("A", "B", "C", "D", "A", "B", "C", "D"),
	})
	require.NoError(t, err)
	require.Len(t, pairings, 4)

	// 1v8, 2v7, 3v6, 4v5 and no same-group conflicts to resolve.
	for i, p := range pairings {
		assert.Equal(t, i+1, p.SlotNumber)
		assert.Equal(t, i+1, p.Home.TeamID)
		require.NotNil(t, p.Away)
		assert.Equal(t, 8-i, p.Away.TeamID)
	}
}

func TestGenerateByesForTopSeeds(t *testing.T) {
	gen := NewSeededGenerator()
	pairings, err := gen.Generate(context.Background(), GenerateParams{
		Seeds: seeds("A", "B", "C", "D", "A", "B"),
	})
	require.NoError(t, err)
	require.Len(t, pairings, 4)

	// Six teams in an eight bracket: seeds 1 and 2 sit out round one.
	assert.Nil(t, pairings[0].Away)
	assert.Nil(t, pairings[1].Away)
	require.NotNil(t, pairings[2].Away)
	require.NotNil(t, pairings[3].Away)
}

func TestGenerateAvoidsGroupRematch(t *testing.T) {
	gen := NewSeededGenerator()
	// Mirror pairing would give 1v4 (A vs A) and 2v3 (B vs B).
	pairings, err := gen.Generate(context.Background(), GenerateParams{
		Seeds: seeds("A", "B", "B", "A"),
	})
	require.NoError(t, err)
	require.Len(t, pairings, 2)

	for _, p := range pairings {
		require.NotNil(t, p.Away)
		assert.NotEqual(t, p.Home.GroupCode, p.Away.GroupCode)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gen := NewSeededGenerator()
	in := GenerateParams{Seeds: seeds("A", "B", "B", "A", "C", "C", "D", "D")}

	first, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)
	second, err := gen.Generate(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Home.TeamID, second[i].Home.TeamID)
		if first[i].Away == nil {
			assert.Nil(t, second[i].Away)
			continue
		}
		require.NotNil(t, second[i].Away)
		assert.Equal(t, first[i].Away.TeamID, second[i].Away.TeamID)
	}
}

func TestGenerateRejectsTooFewSeeds(t *testing.T) {
	gen := NewSeededGenerator()
	_, err := gen.Generate(context.Background(), GenerateParams{Seeds: seeds("A")})
	assert.ErrorIs(t, err, ErrNotEnoughSeeds)
}

func TestPhaseStateTransitions(t *testing.T) {
	matchID := 7

	tests := []struct {
		name  string
		slots []*models.BracketSlot
		want  models.PhaseState
	}{
		{"no slots", nil, models.PhasePending},
		{"slots without matches", []*models.BracketSlot{{SlotNumber: 1}}, models.PhasePending},
		{
			"match scheduled",
			[]*models.BracketSlot{{SlotNumber: 1, MatchID: &matchID}, {SlotNumber: 2}},
			models.PhaseInProgress,
		},
		{
			"all completed",
			[]*models.BracketSlot{
				{SlotNumber: 1, MatchID: &matchID, Completed: true},
				{SlotNumber: 2, Completed: true},
			},
			models.PhaseCompleted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseState(tt.slots))
		})
	}
}

func TestValidateProgression(t *testing.T) {
	assert.NoError(t, ValidateProgression(nil))
	assert.NoError(t, ValidateProgression(&models.Phase{Name: "Semifinals", State: models.PhaseCompleted}))

	err := ValidateProgression(&models.Phase{Name: "Quarterfinals", State: models.PhaseInProgress})
	assert.ErrorIs(t, err, ErrPhaseIncomplete)
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(2))
	assert.Equal(t, "Semifinals", RoundName(4))
	assert.Equal(t, "Quarterfinals", RoundName(8))
	assert.Equal(t, "Round of 16", RoundName(16))
	assert.Equal(t, "Round of 32", RoundName(32))
}
