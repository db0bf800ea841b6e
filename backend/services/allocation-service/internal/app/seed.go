package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type demoBlock struct {
	name  string
	rows  []demoUnit
	total float64
}

type demoUnit struct {
	typology models.Typology
	net      float64
	gross    float64
	floor    int
}

// Two small condominium blocks: one housing-only, one with ground floor shops.
var demoBlocks = []demoBlock{
	{
		name: "Demo Block A",
		rows: []demoUnit{
			{models.TypologyStudio, 34, 40, 1},
			{models.TypologyStudio, 34, 40, 1},
			{models.Typology1BR, 46, 55, 1},
			{models.Typology1BR, 46, 55, 2},
			{models.Typology2BR, 64, 75, 2},
			{models.Typology2BR, 64, 75, 2},
			{models.Typology3BR, 85, 100, 3},
			{models.Typology3BR, 85, 100, 3},
		},
	},
	{
		name: "Demo Block B",
		rows: []demoUnit{
			{models.TypologyShop, 28, 30, 0},
			{models.TypologyShop, 42, 45, 0},
			{models.Typology1BR, 46, 55, 1},
			{models.Typology2BR, 64, 75, 1},
			{models.Typology2BR, 64, 75, 2},
			{models.Typology3BR, 85, 100, 2},
		},
	},
}

func demoUnits() []*models.Unit {
	var out []*models.Unit
	for bi, b := range demoBlocks {
		total := 0.0
		for _, r := range b.rows {
			total += r.gross
		}
		for i, r := range b.rows {
			out = append(out, &models.Unit{
				UnitID:                 fmt.Sprintf("DEMO-%c-%02d", 'A'+bi, i+1),
				Typology:               r.typology,
				NetArea:                r.net,
				GrossArea:              r.gross,
				FloorNumber:            r.floor,
				BlockName:              b.name,
				TotalBuildingGrossArea: total,
			})
		}
	}
	return out
}

/*
SeedDemoUnits stores the demo blocks once. A second call finds the units
already present and leaves the store untouched.
*/
func SeedDemoUnits(ctx context.Context, unitRepo repositories.UnitRepository) error {
	units := demoUnits()
	if err := unitRepo.CreateMany(ctx, units); err != nil {
		if errors.Is(err, utils.ErrDuplicateUnit) {
			utils.Logger.Info("Demo units already present; skipping seed")
			return nil
		}
		return fmt.Errorf("seed demo units: %w", err)
	}
	utils.Logger.Infof("Seeded %d demo units across %d blocks", len(units), len(demoBlocks))
	return nil
}
