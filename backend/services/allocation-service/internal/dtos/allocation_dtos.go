package dtos

import (
	"time"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
)

type RunAllocationRequest struct {
	DistributionMethod string `json:"distributionMethod"`
}

type RunAllocationResponse struct {
	RunID                   string   `json:"runId"`
	Message                 string   `json:"message"`
	ComplianceIssues        []string `json:"complianceIssues"`
	AllocatedCount          int      `json:"allocatedCount"`
	PendingNegotiationCount int      `json:"pendingNegotiationCount"`
}

// PersistenceFailure lists the units of one block that were not written.
type PersistenceFailure struct {
	BlockName string   `json:"blockName"`
	UnitIDs   []string `json:"unitIds"`
	Error     string   `json:"error"`
}

// PersistenceErrorDetails is the `details` payload of a persistence_error.
type PersistenceErrorDetails struct {
	RunAllocationResponse
	PersistenceFailures []PersistenceFailure `json:"persistenceFailures"`
}

type NegotiationRequest struct {
	UnitID string `json:"unitId" validate:"required"`
	Owner  string `json:"owner" validate:"required,oneof=AAHDC Developer"`
}

type NegotiationResponse struct {
	Message string       `json:"message"`
	Unit    *models.Unit `json:"unit"`
}

// BlockCompliance is the audit view of one block.
type BlockCompliance struct {
	allocation.BlockSummary
	Compliant bool     `json:"compliant"`
	Issues    []string `json:"issues"`
}

type ComplianceAuditResponse struct {
	CheckedAt   time.Time         `json:"checkedAt"`
	TargetShare float64           `json:"targetShare"`
	Tolerance   float64           `json:"tolerance"`
	Blocks      []BlockCompliance `json:"blocks"`
	Issues      []string          `json:"issues"`
}
