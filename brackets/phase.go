package brackets

import (
	"fmt"

	"github.com/goolstar/goolstar-api/models"
)

// RoundName maps a phase's team count to its conventional name.
func RoundName(teamCount int) string {
	switch {
	case teamCount <= 2:
		return "Final"
	case teamCount <= 4:
		return "Semifinals"
	case teamCount <= 8:
		return "Quarterfinals"
	case teamCount <= 16:
		return "Round of 16"
	default:
		return fmt.Sprintf("Round of %d", teamCount)
	}
}

// PhaseState derives a phase's lifecycle state from its slots:
// pending until any slot has a scheduled match, completed once every
// slot is completed, in_progress in between.
func PhaseState(slots []*models.BracketSlot) models.PhaseState {
	if len(slots) == 0 {
		return models.PhasePending
	}
	anyMatch := false
	allDone := true
	for _, s := range slots {
		if s.MatchID != nil {
			anyMatch = true
		}
		if !s.Completed {
			allDone = false
		}
	}
	switch {
	case allDone:
		return models.PhaseCompleted
	case anyMatch:
		return models.PhaseInProgress
	default:
		return models.PhasePending
	}
}

// ValidateProgression checks that a new phase may be generated after
// prev. A nil prev means the first knockout phase (fed by the group
// stage), which is always allowed here; the caller gates on the group
// stage being finished.
func ValidateProgression(prev *models.Phase) error {
	if prev == nil {
		return nil
	}
	if prev.State != models.PhaseCompleted {
		return fmt.Errorf("%w: phase %q is %s", ErrPhaseIncomplete, prev.Name, prev.State)
	}
	return nil
}
