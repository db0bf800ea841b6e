package utils

// Error codes specific to allocation-service only.
const (
	ErrCodeInvalidMethod         = "invalid_method"
	ErrCodeInvalidInput          = "invalid_input"
	ErrCodeInvalidOwner          = "invalid_owner"
	ErrCodeDuplicateUnit         = "duplicate_unit"
	ErrCodeInconsistentBlock     = "inconsistent_block_total"
	ErrCodeAllocationInProgress  = "allocation_in_progress"
	ErrCodePersistence           = "persistence_error"
	ErrCodeNotPendingNegotiation = "not_pending_negotiation"
	ErrCodeAlreadyAllocated      = "unit_already_allocated"
)
