package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheckHandler(t *testing.T) {
	ok := NewHealthController(pingFunc(func(context.Context) error { return nil }), "postgres")
	rec := httptest.NewRecorder()
	ok.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","store":"postgres"}`, rec.Body.String())

	down := NewHealthController(pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), "postgres")
	rec = httptest.NewRecorder()
	down.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrCodeServiceUnavailable, body.Code)
}

func TestFormatValidationErrors(t *testing.T) {
	v := newValidator()
	req := dtos.SubmitUnitsRequest{Units: []dtos.UnitSubmission{
		{UnitID: "A-1", Typology: "2BR", NetArea: 80, GrossArea: 100, BlockName: "A", TotalBuildingGrossArea: 100},
		{UnitID: "", Typology: "Penthouse", NetArea: 80, GrossArea: 100, BlockName: "A", TotalBuildingGrossArea: 0},
	}}

	err := v.Struct(req)
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	details := formatValidationErrors(verrs)
	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Code
	}
	assert.Equal(t, map[string]string{
		"units[1].unitId":                 "validation_required",
		"units[1].typology":               "validation_oneof",
		"units[1].totalBuildingGrossArea": "validation_gt",
	}, byField)

	for _, d := range details {
		if d.Field == "units[1].typology" {
			assert.Equal(t, "Field 'units[1].typology' must be one of [Studio 1BR 2BR 3BR Shop]", d.Message)
			assert.Equal(t, "Studio 1BR 2BR 3BR Shop", d.Param)
		}
	}
}
