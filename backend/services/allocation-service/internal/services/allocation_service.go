package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/constants"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/locking"
	internal_utils "github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/utils"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

// AllocationService runs the engine against the store. It owns the run
// lock; only one run or negotiation write happens at a time.
type AllocationService struct {
	unitRepo repositories.UnitRepository
	engine   *allocation.Engine
	locker   locking.LockManager
}

func NewAllocationService(
	unitRepo repositories.UnitRepository,
	engine *allocation.Engine,
	locker locking.LockManager,
) *AllocationService {
	return &AllocationService{
		unitRepo: unitRepo,
		engine:   engine,
		locker:   locker,
	}
}

// RunAllocation allocates every unallocated unit with the named method.
// Persistence failures are reported per block after all blocks were tried.
func (s *AllocationService) RunAllocation(ctx context.Context, methodName string) (*dtos.RunAllocationResponse, error) {
	method, err := allocation.ParseMethod(methodName)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: internal_utils.ErrCodeInvalidMethod, Message: err.Error(), Err: err}
	}

	handle, acquired, err := s.locker.TryLock(ctx, constants.RunLockKey)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to acquire allocation lock", Err: err}
	}
	if !acquired {
		return nil, allocationInProgressError()
	}
	defer func() {
		if err := handle.Unlock(context.WithoutCancel(ctx)); err != nil {
			utils.Logger.WithError(err).Warn("Failed to release allocation lock")
		}
	}()

	runID := uuid.NewString()
	logger := utils.Logger.WithFields(logrus.Fields{"runId": runID, "method": method})
	logger.Info("Allocation run started")

	units, err := s.unitRepo.ListUnallocated(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load unallocated units", Err: err}
	}
	if len(units) == 0 {
		logger.Info("No unallocated units; nothing to do")
		return &dtos.RunAllocationResponse{
			RunID:            runID,
			Message:          constants.NoUnallocatedUnitsMessage,
			ComplianceIssues: []string{},
		}, nil
	}

	committed, err := s.committedUnits(ctx, units)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load allocated units of affected blocks", Err: err}
	}

	result, err := s.engine.AllocateWithCommitted(method, units, committed)
	if err != nil {
		if errors.Is(err, allocation.ErrInvalidInput) {
			return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: internal_utils.ErrCodeInvalidInput, Message: err.Error(), Err: err}
		}
		if errors.Is(err, allocation.ErrInvalidMethod) {
			return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: internal_utils.ErrCodeInvalidMethod, Message: err.Error(), Err: err}
		}
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Allocation failed", Err: err}
	}

	resp := &dtos.RunAllocationResponse{
		RunID:            runID,
		Message:          result.Message,
		ComplianceIssues: result.Issues,
	}
	// Once decided, the run is written out even if the caller goes away.
	failures := s.persist(context.WithoutCancel(ctx), handle, result, resp, logger)

	logger.WithFields(logrus.Fields{
		"allocated":        resp.AllocatedCount,
		"pending":          resp.PendingNegotiationCount,
		"complianceIssues": len(resp.ComplianceIssues),
		"failedBlocks":     len(failures),
	}).Info("Allocation run finished")

	if len(failures) > 0 {
		return nil, &utils.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       internal_utils.ErrCodePersistence,
			Message:    fmt.Sprintf("Allocation could not be saved for %d block(s)", len(failures)),
			Details: dtos.PersistenceErrorDetails{
				RunAllocationResponse: *resp,
				PersistenceFailures:   failures,
			},
		}
	}
	return resp, nil
}

// committedUnits loads the already allocated units of every block that
// has units up for allocation.
func (s *AllocationService) committedUnits(ctx context.Context, units []*models.Unit) ([]*models.Unit, error) {
	seen := make(map[string]struct{})
	var committed []*models.Unit
	for _, u := range units {
		if _, ok := seen[u.BlockName]; ok {
			continue
		}
		seen[u.BlockName] = struct{}{}

		inBlock, err := s.unitRepo.ListByBlock(ctx, u.BlockName)
		if err != nil {
			return nil, fmt.Errorf("list block %s: %w", u.BlockName, err)
		}
		for _, b := range inBlock {
			if b.Allocated {
				committed = append(committed, b)
			}
		}
	}
	return committed, nil
}

// persist writes decisions block by block, refreshing the run lock before
// each block. The first failure in a block stops that block; the failed
// unit and everything after it are reported. Losing the lock stops the run
// and reports every block not yet written.
func (s *AllocationService) persist(
	ctx context.Context,
	handle locking.LockHandle,
	result *allocation.Result,
	resp *dtos.RunAllocationResponse,
	logger *logrus.Entry,
) []dtos.PersistenceFailure {
	var failures []dtos.PersistenceFailure
	for n, block := range result.Blocks {
		if err := handle.Refresh(ctx); err != nil {
			if errors.Is(err, locking.ErrLockLost) {
				logger.WithError(err).WithField("block", block.BlockName).Error("Allocation lock lost; not writing remaining blocks")
				for _, rest := range result.Blocks[n:] {
					failures = append(failures, dtos.PersistenceFailure{
						BlockName: rest.BlockName,
						UnitIDs:   unitIDs(rest.Units),
						Error:     err.Error(),
					})
				}
				return failures
			}
			logger.WithError(err).WithField("block", block.BlockName).Warn("Failed to refresh allocation lock")
		}

		for i, u := range block.Units {
			var err error
			if u.Owner == models.OwnerPendingNegotiation {
				err = s.unitRepo.MarkPendingNegotiation(ctx, u.UnitID)
			} else {
				err = s.unitRepo.MarkAllocated(ctx, u.UnitID, u.Owner)
			}
			if err != nil {
				failures = append(failures, dtos.PersistenceFailure{
					BlockName: block.BlockName,
					UnitIDs:   unitIDs(block.Units[i:]),
					Error:     err.Error(),
				})
				logger.WithError(err).WithFields(logrus.Fields{
					"block":  block.BlockName,
					"unitId": u.UnitID,
				}).Error("Failed to persist allocation; skipping rest of block")
				break
			}

			if u.Owner == models.OwnerPendingNegotiation {
				resp.PendingNegotiationCount++
			} else {
				resp.AllocatedCount++
			}
		}
	}
	return failures
}

func unitIDs(units []models.Unit) []string {
	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.UnitID)
	}
	return ids
}

func (s *AllocationService) ListAllocated(ctx context.Context) ([]*models.Unit, error) {
	units, err := s.unitRepo.ListAllocated(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to list allocated units", Err: err}
	}
	return nonNil(units), nil
}

func (s *AllocationService) ListUnallocated(ctx context.Context) ([]*models.Unit, error) {
	units, err := s.unitRepo.ListUnallocated(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to list unallocated units", Err: err}
	}
	return nonNil(units), nil
}

// ResolveNegotiation gives a pending unit its final owner.
func (s *AllocationService) ResolveNegotiation(ctx context.Context, unitID, ownerName string) (*models.Unit, error) {
	owner, err := models.ParseOwner(ownerName)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: internal_utils.ErrCodeInvalidOwner, Message: "owner must be AAHDC or Developer", Err: err}
	}

	var updated *models.Unit
	err = s.locker.WithLock(ctx, constants.RunLockKey, func(ctx context.Context) error {
		unit, err := s.unitRepo.GetByID(ctx, unitID)
		if err != nil {
			return &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load unit", Err: err}
		}
		if unit == nil {
			return &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: fmt.Sprintf("Unit %s not found", unitID)}
		}
		if !unit.IsPendingNegotiation() {
			return &utils.AppError{
				StatusCode: http.StatusConflict,
				Code:       internal_utils.ErrCodeNotPendingNegotiation,
				Message:    fmt.Sprintf("Unit %s is not pending negotiation", unitID),
			}
		}

		if err := s.unitRepo.MarkAllocated(ctx, unitID, owner); err != nil {
			switch {
			case errors.Is(err, utils.ErrUnitNotFound):
				return &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: fmt.Sprintf("Unit %s not found", unitID), Err: err}
			case errors.Is(err, utils.ErrUnitAlreadyAllocated):
				return &utils.AppError{StatusCode: http.StatusConflict, Code: internal_utils.ErrCodeAlreadyAllocated, Message: fmt.Sprintf("Unit %s is already allocated", unitID), Err: err}
			case errors.Is(err, utils.ErrRowVersionConflict):
				return &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeRowVersionConflict, Message: "Unit was modified concurrently; retry", Err: err}
			default:
				return &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to save negotiation outcome", Err: err}
			}
		}

		updated, err = s.unitRepo.GetByID(ctx, unitID)
		if err != nil {
			return &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to reload unit", Err: err}
		}
		return nil
	})
	if errors.Is(err, locking.ErrLockBusy) {
		return nil, allocationInProgressError()
	}
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to acquire allocation lock", Err: err}
	}

	utils.Logger.WithFields(logrus.Fields{"unitId": unitID, "owner": owner}).Info("Negotiation resolved")
	return updated, nil
}

func allocationInProgressError() error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       internal_utils.ErrCodeAllocationInProgress,
		Message:    "An allocation run is already in progress",
	}
}
