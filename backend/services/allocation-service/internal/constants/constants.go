package constants

import "time"

const (
	// RunLockKey serialises allocation runs and negotiation resolution.
	RunLockKey = "lock:aahdc:allocation-run"

	NoUnallocatedUnitsMessage = "No unallocated units to allocate."

	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	DefaultAppPort                 = "5000"
	DefaultComplianceAuditSchedule = "0 2 * * *"
	DefaultAllocationLockTTL       = 2 * time.Minute
)
