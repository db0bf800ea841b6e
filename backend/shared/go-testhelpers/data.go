// backend/shared/go-testhelpers/data.go

package testhelpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

// UniqueBlockName generates a block name that will not collide with other runs.
func UniqueBlockName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

// NewUnit builds an unallocated unit. Net area is 85% of gross.
func NewUnit(block, unitID string, typology models.Typology, gross float64, floor int, blockTotal float64) *models.Unit {
	return &models.Unit{
		UnitID:                 unitID,
		Typology:               typology,
		NetArea:                gross * 0.85,
		GrossArea:              gross,
		FloorNumber:            floor,
		BlockName:              block,
		TotalBuildingGrossArea: blockTotal,
	}
}

// NewBlock builds one housing unit per gross area, ids <block>-U1, <block>-U2, ...
// on floors 1, 2, ... The block total is the sum of the gross areas.
func NewBlock(block string, grossAreas ...float64) []*models.Unit {
	var total float64
	for _, g := range grossAreas {
		total += g
	}
	out := make([]*models.Unit, 0, len(grossAreas))
	for i, g := range grossAreas {
		out = append(out, NewUnit(block, fmt.Sprintf("%s-U%d", block, i+1), models.Typology2BR, g, i+1, total))
	}
	return out
}

// CreateTestBlock persists a block built by NewBlock.
func (h *TestHelper) CreateTestBlock(ctx context.Context, block string, grossAreas ...float64) []*models.Unit {
	h.RequireDB()
	units := NewBlock(block, grossAreas...)
	require.NoError(h.T, h.UnitRepo.CreateMany(ctx, units), "Failed to create test block")
	return units
}
