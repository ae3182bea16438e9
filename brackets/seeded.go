package brackets

import (
	"context"
	"sort"
)

// SeededGenerator produces single-elimination first-round pairings:
// seed 1 against the lowest surviving seed, seed 2 against the next
// lowest, and so on. When the seed list is short of a power of two the
// top seeds receive byes. Round-one pairings between teams of the same
// group are avoided where a swap between equally-ranked opponents can
// fix it.
type SeededGenerator struct{}

func NewSeededGenerator() Generator {
	return &SeededGenerator{}
}

func (g *SeededGenerator) Name() string {
	return "SeededSingleElimination"
}

func (g *SeededGenerator) Generate(_ context.Context, params GenerateParams) ([]*Pairing, error) {
	seeds := params.Seeds
	n := len(seeds)
	if n < 2 {
		return nil, ErrNotEnoughSeeds
	}

	bracketSize := 2
	for bracketSize < n {
		bracketSize *= 2
	}

	pairings := make([]*Pairing, 0, bracketSize/2)
	for slot := 1; slot <= bracketSize/2; slot++ {
		home := seeds[slot-1]
		pairing := &Pairing{SlotNumber: slot, Home: home}

		awayIdx := bracketSize - slot // zero-based index of the mirrored seed
		if awayIdx < n {
			away := seeds[awayIdx]
			pairing.Away = &away
		}
		pairings = append(pairings, pairing)
	}

	avoidGroupRematches(pairings)

	sort.SliceStable(pairings, func(i, j int) bool {
		return pairings[i].SlotNumber < pairings[j].SlotNumber
	})
	return pairings, nil
}

// avoidGroupRematches swaps away sides between slots when a pairing
// would repeat a group-stage meeting. Only swaps that do not introduce
// a new same-group pairing are taken, scanning forward from each
// conflicted slot, so the result stays deterministic for a given seed
// order. Conflicts with no clean swap are left in place.
func avoidGroupRematches(pairings []*Pairing) {
	for i, p := range pairings {
		if !sameGroup(p) {
			continue
		}
		for j := i + 1; j < len(pairings); j++ {
			q := pairings[j]
			if q.Away == nil {
				continue
			}
			if p.Home.GroupCode == q.Away.GroupCode {
				continue
			}
			if q.Home.GroupCode == p.Away.GroupCode {
				continue
			}
			p.Away, q.Away = q.Away, p.Away
			break
		}
	}
}

func sameGroup(p *Pairing) bool {
	return p.Away != nil && p.Home.GroupCode != "" && p.Home.GroupCode == p.Away.GroupCode
}
