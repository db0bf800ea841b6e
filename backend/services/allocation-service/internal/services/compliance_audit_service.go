package services

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

// ComplianceAuditService re-checks persisted allocations block by block.
type ComplianceAuditService struct {
	unitRepo repositories.UnitRepository
	checker  *allocation.Checker
	now      func() time.Time
}

func NewComplianceAuditService(unitRepo repositories.UnitRepository, checker *allocation.Checker) *ComplianceAuditService {
	return &ComplianceAuditService{unitRepo: unitRepo, checker: checker, now: time.Now}
}

// Audit summarises every block that has at least one allocated unit.
func (s *ComplianceAuditService) Audit(ctx context.Context) (*dtos.ComplianceAuditResponse, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load units", Err: err}
	}

	resp := &dtos.ComplianceAuditResponse{
		CheckedAt:   s.now().UTC(),
		TargetShare: s.checker.TargetShare,
		Tolerance:   s.checker.Tolerance,
		Blocks:      summarizeBlocks(units, s.checker),
		Issues:      []string{},
	}
	for _, b := range resp.Blocks {
		resp.Issues = append(resp.Issues, b.Issues...)
	}
	return resp, nil
}

// RunScheduledAudit is the cron entry point. Issues are logged, not returned.
func (s *ComplianceAuditService) RunScheduledAudit(ctx context.Context) error {
	resp, err := s.Audit(ctx)
	if err != nil {
		return err
	}
	for _, b := range resp.Blocks {
		if b.Compliant {
			continue
		}
		utils.Logger.WithFields(logrus.Fields{
			"block":          b.BlockName,
			"authorityShare": b.AuthorityShare,
		}).Warn(b.Issues[0])
	}
	utils.Logger.WithFields(logrus.Fields{
		"blocks": len(resp.Blocks),
		"issues": len(resp.Issues),
	}).Info("Scheduled compliance audit finished")
	return nil
}

// summarizeBlocks groups units by block and checks each block that has at
// least one allocated unit. Output is ordered by block name because the
// input is.
func summarizeBlocks(units []*models.Unit, checker *allocation.Checker) []dtos.BlockCompliance {
	type group struct {
		total     float64
		allocated bool
		units     []models.Unit
	}
	var order []string
	groups := make(map[string]*group)
	for _, u := range units {
		g, ok := groups[u.BlockName]
		if !ok {
			g = &group{total: u.TotalBuildingGrossArea}
			groups[u.BlockName] = g
			order = append(order, u.BlockName)
		}
		g.allocated = g.allocated || u.Allocated
		g.units = append(g.units, *u)
	}

	out := []dtos.BlockCompliance{}
	for _, name := range order {
		g := groups[name]
		if !g.allocated {
			continue
		}
		summary := allocation.Summarize(name, g.total, g.units)
		issues := checker.CheckSummary(summary)
		if issues == nil {
			issues = []string{}
		}
		out = append(out, dtos.BlockCompliance{
			BlockSummary: summary,
			Compliant:    len(issues) == 0,
			Issues:       issues,
		})
	}
	return out
}
