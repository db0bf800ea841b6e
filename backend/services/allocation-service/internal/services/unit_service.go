package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	internal_utils "github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/utils"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type UnitService struct {
	unitRepo repositories.UnitRepository
}

func NewUnitService(unitRepo repositories.UnitRepository) *UnitService {
	return &UnitService{unitRepo: unitRepo}
}

// SubmitUnits stores a batch of new, unallocated units. Field-level
// validation happens in the controller; this enforces the cross-row rules.
func (s *UnitService) SubmitUnits(ctx context.Context, subs []dtos.UnitSubmission) (*dtos.SubmitUnitsResponse, error) {
	if len(subs) == 0 {
		return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeValidation, Message: "At least one unit is required"}
	}

	units := make([]*models.Unit, 0, len(subs))
	seen := make(map[string]struct{}, len(subs))
	blockTotals := make(map[string]float64)
	for _, sub := range subs {
		typology, err := models.ParseTypology(sub.Typology)
		if err != nil {
			return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeValidation, Message: err.Error(), Err: err}
		}
		if sub.GrossArea < sub.NetArea {
			return nil, &utils.AppError{
				StatusCode: http.StatusBadRequest,
				Code:       utils.ErrCodeValidation,
				Message:    fmt.Sprintf("Unit %s: grossArea must be at least netArea", sub.UnitID),
			}
		}
		if _, dup := seen[sub.UnitID]; dup {
			return nil, &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       internal_utils.ErrCodeDuplicateUnit,
				Message:    fmt.Sprintf("Unit %s appears more than once in the submission", sub.UnitID),
			}
		}
		seen[sub.UnitID] = struct{}{}

		if total, ok := blockTotals[sub.BlockName]; ok && total != sub.TotalBuildingGrossArea {
			return nil, inconsistentBlockError(sub.BlockName, total, sub.TotalBuildingGrossArea)
		}
		blockTotals[sub.BlockName] = sub.TotalBuildingGrossArea

		units = append(units, &models.Unit{
			UnitID:                 sub.UnitID,
			Typology:               typology,
			NetArea:                sub.NetArea,
			GrossArea:              sub.GrossArea,
			FloorNumber:            sub.FloorNumber,
			BlockName:              sub.BlockName,
			TotalBuildingGrossArea: sub.TotalBuildingGrossArea,
		})
	}

	// The batch must also agree with units already stored for the same block.
	for block, total := range blockTotals {
		existing, err := s.unitRepo.ListByBlock(ctx, block)
		if err != nil {
			return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load existing units", Err: err}
		}
		if len(existing) > 0 && existing[0].TotalBuildingGrossArea != total {
			return nil, inconsistentBlockError(block, existing[0].TotalBuildingGrossArea, total)
		}
	}

	if err := s.unitRepo.CreateMany(ctx, units); err != nil {
		if errors.Is(err, utils.ErrDuplicateUnit) {
			return nil, &utils.AppError{StatusCode: http.StatusConflict, Code: internal_utils.ErrCodeDuplicateUnit, Message: "One or more units already exist", Err: err}
		}
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to save units", Err: err}
	}

	utils.Logger.WithField("count", len(units)).Info("Units submitted")
	return &dtos.SubmitUnitsResponse{
		Message: fmt.Sprintf("%d units submitted successfully.", len(units)),
		Count:   len(units),
	}, nil
}

// ListUnits returns every unit ordered by block then unit id.
func (s *UnitService) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	units, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to list units", Err: err}
	}
	return nonNil(units), nil
}

func inconsistentBlockError(block string, want, got float64) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       internal_utils.ErrCodeInconsistentBlock,
		Message: fmt.Sprintf("Block %s: totalBuildingGrossArea %.2f does not match %.2f reported by other units",
			block, got, want),
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(units []*models.Unit) []*models.Unit {
	if units == nil {
		return []*models.Unit{}
	}
	return units
}
