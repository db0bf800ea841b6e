package controllers

import (
	"context"
	"net/http"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController checks store connectivity.
type HealthController struct {
	store     pinger
	storeName string
}

func NewHealthController(store pinger, storeName string) *HealthController {
	return &HealthController{store: store, storeName: storeName}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("allocation-service store unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeServiceUnavailable, "Unit store unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK", Store: c.storeName})
}
