// go-models/unit.go
package models

import (
	"time"
)

// Unit is one allocable space (apartment or shop) inside a block.
// JSON names match the frontend payloads.
type Unit struct {
	UnitID                 string    `json:"unitId"`
	Typology               Typology  `json:"typology"`
	NetArea                float64   `json:"netArea"`
	GrossArea              float64   `json:"grossArea"`
	FloorNumber            int       `json:"floorNumber"`
	BlockName              string    `json:"blockName"`
	TotalBuildingGrossArea float64   `json:"totalBuildingGrossArea"`
	Allocated              bool      `json:"allocated"`
	Owner                  Owner     `json:"owner"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`

	// RowVersion is bumped by every owner change; updates compare it.
	RowVersion int64 `json:"rowVersion"`
}

func (u *Unit) GetID() string         { return u.UnitID }
func (u *Unit) GetRowVersion() int64  { return u.RowVersion }
func (u *Unit) SetRowVersion(n int64) { u.RowVersion = n }

// IsPendingNegotiation reports whether the unit is waiting on a manual
// Developer/AAHDC decision.
func (u *Unit) IsPendingNegotiation() bool {
	return !u.Allocated && u.Owner == OwnerPendingNegotiation
}
