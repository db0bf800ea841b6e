package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

func blockWithAuthorityArea(authority float64) BlockResult {
	return BlockResult{
		BlockName:      "A",
		TotalGrossArea: 1000,
		Units: []models.Unit{
			{UnitID: "A-1", GrossArea: authority, Owner: models.OwnerAuthority},
			{UnitID: "A-2", GrossArea: 1000 - authority, Owner: models.OwnerDeveloper},
		},
	}
}

func TestCheckerFlagsOutsideTolerance(t *testing.T) {
	c := NewChecker(0.20, 0.05, 1e-6)

	issues := c.Check(blockWithAuthorityArea(280))
	require.Len(t, issues, 1)
	assert.Equal(t,
		"Block A: AAHDC share 28.00% deviates from target 20.00% by 8.00 percentage points (tolerance 5.00%)",
		issues[0],
	)

	assert.Empty(t, c.Check(blockWithAuthorityArea(220)))
	assert.Empty(t, c.Check(blockWithAuthorityArea(200)))
}

func TestCheckerBoundaryIsInclusive(t *testing.T) {
	c := NewChecker(0.20, 0.05, 1e-6)
	assert.Empty(t, c.Check(blockWithAuthorityArea(250)))
	assert.Empty(t, c.Check(blockWithAuthorityArea(150)))
	assert.Len(t, c.Check(blockWithAuthorityArea(251)), 1)
	assert.Len(t, c.Check(blockWithAuthorityArea(149)), 1)
}

func TestCheckerMeasuresAgainstBlockTotal(t *testing.T) {
	c := NewChecker(0.20, 0.05, 1e-6)
	// Only part of the block is allocated: 200 of a 2000 sqm block is 10%.
	b := BlockResult{
		BlockName:      "B",
		TotalGrossArea: 2000,
		Units: []models.Unit{
			{UnitID: "B-1", GrossArea: 200, Owner: models.OwnerAuthority},
			{UnitID: "B-2", GrossArea: 300, Owner: models.OwnerDeveloper},
		},
	}
	issues := c.Check(b)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "AAHDC share 10.00%")
}

func TestSummarize(t *testing.T) {
	s := Summarize("Z", 500, []models.Unit{
		{GrossArea: 100, Owner: models.OwnerAuthority},
		{GrossArea: 150, Owner: models.OwnerDeveloper},
		{GrossArea: 120, Owner: models.OwnerPendingNegotiation},
		{GrossArea: 130},
	})
	assert.Equal(t, "Z", s.BlockName)
	assert.Equal(t, 4, s.UnitCount)
	assert.InDelta(t, 100, s.AuthorityArea, 1e-9)
	assert.InDelta(t, 150, s.DeveloperArea, 1e-9)
	assert.InDelta(t, 120, s.PendingArea, 1e-9)
	assert.InDelta(t, 130, s.UnassignedArea, 1e-9)
	assert.InDelta(t, 0.2, s.AuthorityShare, 1e-9)

	empty := Summarize("E", 0, nil)
	assert.Zero(t, empty.AuthorityShare)
}
