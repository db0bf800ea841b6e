package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/services"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type AllocationController struct {
	allocationService *services.AllocationService
	auditService      *services.ComplianceAuditService
	validate          *validator.Validate
}

func NewAllocationController(s *services.AllocationService, audit *services.ComplianceAuditService) *AllocationController {
	return &AllocationController{
		allocationService: s,
		auditService:      audit,
		validate:          newValidator(),
	}
}

// POST /api/allocation/run
func (c *AllocationController) RunAllocationHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "RunAllocationHandler")
	logger.Info("Request received")

	var req dtos.RunAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	logger = logger.WithField("distributionMethod", req.DistributionMethod)

	resp, err := c.allocationService.RunAllocation(r.Context(), req.DistributionMethod)
	if err != nil {
		logger.WithError(err).Error("Allocation run failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("runId", resp.RunID).Info("Allocation run successful")
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/allocation/allocated
func (c *AllocationController) ListAllocatedHandler(w http.ResponseWriter, r *http.Request) {
	units, err := c.allocationService.ListAllocated(r.Context())
	if err != nil {
		utils.Logger.WithField("handler", "ListAllocatedHandler").WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnitsResponse(units))
}

// GET /api/allocation/unallocated
func (c *AllocationController) ListUnallocatedHandler(w http.ResponseWriter, r *http.Request) {
	units, err := c.allocationService.ListUnallocated(r.Context())
	if err != nil {
		utils.Logger.WithField("handler", "ListUnallocatedHandler").WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnitsResponse(units))
}

// POST /api/allocation/negotiate
func (c *AllocationController) ResolveNegotiationHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "ResolveNegotiationHandler")
	logger.Info("Request received")

	var req dtos.NegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Negotiation request failed validation", formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return
	}
	logger = logger.WithField("unitId", req.UnitID)

	unit, err := c.allocationService.ResolveNegotiation(r.Context(), req.UnitID, req.Owner)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NegotiationResponse{
		Message: "Unit " + unit.UnitID + " allocated to " + unit.Owner.String(),
		Unit:    unit,
	})
}

// GET /api/allocation/compliance
func (c *AllocationController) ComplianceAuditHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.auditService.Audit(r.Context())
	if err != nil {
		utils.Logger.WithField("handler", "ComplianceAuditHandler").WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
