package dtos

import (
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

// UnitSubmission is one row of the developer's unit upload.
type UnitSubmission struct {
	UnitID                 string  `json:"unitId" validate:"required,max=64"`
	Typology               string  `json:"typology" validate:"required,oneof=Studio 1BR 2BR 3BR Shop"`
	NetArea                float64 `json:"netArea" validate:"gt=0"`
	GrossArea              float64 `json:"grossArea" validate:"gt=0,gtefield=NetArea"`
	FloorNumber            int     `json:"floorNumber"`
	BlockName              string  `json:"blockName" validate:"required,max=128"`
	TotalBuildingGrossArea float64 `json:"totalBuildingGrossArea" validate:"gt=0"`
}

// SubmitUnitsRequest wraps the JSON array body so it can be validated as a struct.
type SubmitUnitsRequest struct {
	Units []UnitSubmission `json:"units" validate:"required,min=1,max=5000,dive"`
}

type SubmitUnitsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// UnitsResponse is a plain list so the frontend can render it directly.
type UnitsResponse []*models.Unit

type HealthCheckResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}
