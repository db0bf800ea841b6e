package allocation

import (
	"fmt"
	"math"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

// Checker compares the authority's share of a block's total gross area
// against a target within a tolerance band.
type Checker struct {
	TargetShare float64
	Tolerance   float64
	Epsilon     float64
}

func NewChecker(target, tolerance, epsilon float64) *Checker {
	return &Checker{TargetShare: target, Tolerance: tolerance, Epsilon: epsilon}
}

// BlockSummary aggregates gross area per owner for one block.
type BlockSummary struct {
	BlockName      string  `json:"blockName"`
	TotalGrossArea float64 `json:"totalGrossArea"`
	AuthorityArea  float64 `json:"authorityArea"`
	DeveloperArea  float64 `json:"developerArea"`
	PendingArea    float64 `json:"pendingArea"`
	UnassignedArea float64 `json:"unassignedArea"`
	AuthorityShare float64 `json:"authorityShare"`
	UnitCount      int     `json:"unitCount"`
}

// Summarize totals the units of one block by owner. The authority share is
// taken against total, the block's total building gross area.
func Summarize(blockName string, total float64, units []models.Unit) BlockSummary {
	s := BlockSummary{BlockName: blockName, TotalGrossArea: total, UnitCount: len(units)}
	for _, u := range units {
		switch u.Owner {
		case models.OwnerAuthority:
			s.AuthorityArea += u.GrossArea
		case models.OwnerDeveloper:
			s.DeveloperArea += u.GrossArea
		case models.OwnerPendingNegotiation:
			s.PendingArea += u.GrossArea
		default:
			s.UnassignedArea += u.GrossArea
		}
	}
	if total > 0 {
		s.AuthorityShare = s.AuthorityArea / total
	}
	return s
}

// Deviation is the absolute distance between share and the target.
func (c *Checker) Deviation(share float64) float64 {
	return math.Abs(share - c.TargetShare)
}

// Compliant reports whether share is within tolerance of the target.
func (c *Checker) Compliant(share float64) bool {
	return c.Deviation(share) <= c.Tolerance+c.Epsilon
}

// Check returns at most one issue for the block, counting both this run's
// units and the committed ones. It never fails.
func (c *Checker) Check(b BlockResult) []string {
	all := make([]models.Unit, 0, len(b.Units)+len(b.Committed))
	all = append(all, b.Units...)
	all = append(all, b.Committed...)
	return c.CheckSummary(Summarize(b.BlockName, b.TotalGrossArea, all))
}

func (c *Checker) CheckSummary(s BlockSummary) []string {
	if c.Compliant(s.AuthorityShare) {
		return nil
	}
	return []string{fmt.Sprintf(
		"Block %s: AAHDC share %.2f%% deviates from target %.2f%% by %.2f percentage points (tolerance %.2f%%)",
		s.BlockName,
		s.AuthorityShare*100,
		c.TargetShare*100,
		c.Deviation(s.AuthorityShare)*100,
		c.Tolerance*100,
	)}
}
