package routes

const (
	// Health
	Health = "/health"

	// Developer unit submission
	Units = "/api/units"

	// Allocation runs and results
	AllocationRun         = "/api/allocation/run"
	AllocationAllocated   = "/api/allocation/allocated"
	AllocationUnallocated = "/api/allocation/unallocated"
	AllocationNegotiate   = "/api/allocation/negotiate"
	AllocationCompliance  = "/api/allocation/compliance"

	// Downloads
	ReportsExcel = "/api/reports/excel"
	ReportsPDF   = "/api/reports/pdf"
)
