package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/services"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type UnitsController struct {
	unitService *services.UnitService
	validate    *validator.Validate
}

func NewUnitsController(s *services.UnitService) *UnitsController {
	return &UnitsController{
		unitService: s,
		validate:    newValidator(),
	}
}

// POST /api/units
func (c *UnitsController) SubmitUnitsHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "SubmitUnitsHandler")
	logger.Info("Request received")

	var req dtos.SubmitUnitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req.Units); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Body must be a JSON array of units", nil, err)
		return
	}
	logger.WithField("count", len(req.Units)).Info("Request body decoded")

	if err := c.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Unit submission failed validation", formatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return
	}

	resp, err := c.unitService.SubmitUnits(r.Context(), req.Units)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("count", resp.Count).Info("Units stored")
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/units
func (c *UnitsController) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "ListUnitsHandler")

	units, err := c.unitService.ListUnits(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.UnitsResponse(units))
}
