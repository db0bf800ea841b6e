package allocation

import (
	"fmt"
	"sort"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

// strategy decides an owner for every unit of one block. It may return
// informational issues.
type strategy func(e *Engine, b *block) (map[string]models.Owner, []string)

var strategies = map[models.DistributionMethod]strategy{
	models.MethodFullLottery:   fullLottery,
	models.MethodHybridLottery: hybridLottery,
	models.MethodBlockByBlock:  blockByBlock,
	models.MethodFloorLottery:  floorLottery,
}

func splitClasses(units []*models.Unit) (housing, commercial []*models.Unit) {
	for _, u := range units {
		if u.Typology.IsCommercial() {
			commercial = append(commercial, u)
		} else {
			housing = append(housing, u)
		}
	}
	return housing, commercial
}

// fullLottery shuffles housing and shops separately and draws them in that
// order against one running tally for the block, seeded with the area
// earlier runs committed.
func fullLottery(e *Engine, b *block) (map[string]models.Owner, []string) {
	owners := make(map[string]models.Owner, len(b.units))
	housing, commercial := splitClasses(b.units)

	t := b.committedTally(nil)
	draw := e.greedyDraw(e.shuffled(housing), &t, 0, owners)
	e.greedyDraw(e.shuffled(commercial), &t, draw, owners)
	return owners, nil
}

// hybridLottery draws housing only. Shops wait for negotiation.
func hybridLottery(e *Engine, b *block) (map[string]models.Owner, []string) {
	owners := make(map[string]models.Owner, len(b.units))
	housing, commercial := splitClasses(b.units)

	t := b.committedTally(nil)
	e.greedyDraw(e.shuffled(housing), &t, 0, owners)

	var issues []string
	for _, u := range commercial {
		owners[u.UnitID] = models.OwnerPendingNegotiation
		issues = append(issues, fmt.Sprintf("Block %s: unit %s (%s) is pending negotiation", b.name, u.UnitID, u.Typology))
	}
	return owners, issues
}

// blockByBlock alternates Developer, AAHDC, Developer, ... over the units
// in unit id order. No balancing is applied.
func blockByBlock(e *Engine, b *block) (map[string]models.Owner, []string) {
	owners := make(map[string]models.Owner, len(b.units))
	for i, u := range b.units {
		if i%2 == 0 {
			owners[u.UnitID] = models.OwnerDeveloper
		} else {
			owners[u.UnitID] = models.OwnerAuthority
		}
	}
	return owners, nil
}

// floorLottery runs an independent greedy draw for each floor, lowest
// floor first, so the target applies per floor.
func floorLottery(e *Engine, b *block) (map[string]models.Owner, []string) {
	owners := make(map[string]models.Owner, len(b.units))

	byFloor := make(map[int][]*models.Unit)
	var floors []int
	for _, u := range b.units {
		if _, ok := byFloor[u.FloorNumber]; !ok {
			floors = append(floors, u.FloorNumber)
		}
		byFloor[u.FloorNumber] = append(byFloor[u.FloorNumber], u)
	}
	sort.Ints(floors)

	for _, f := range floors {
		t := b.committedTally(&f)
		e.greedyDraw(e.shuffled(byFloor[f]), &t, 0, owners)
	}
	return owners, nil
}
