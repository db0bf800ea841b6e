package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/controllers"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-middleware"
)

type Controllers struct {
	Health     *controllers.HealthController
	Units      *controllers.UnitsController
	Allocation *controllers.AllocationController
	Reports    *controllers.ReportsController
}

// NewRouter registers every endpoint of the service.
func NewRouter(c Controllers) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.AccessLogMiddleware,
		middleware.RecoverMiddleware,
	)

	router.HandleFunc(Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)

	router.HandleFunc(Units, c.Units.SubmitUnitsHandler).Methods(http.MethodPost)
	router.HandleFunc(Units, c.Units.ListUnitsHandler).Methods(http.MethodGet)

	router.HandleFunc(AllocationRun, c.Allocation.RunAllocationHandler).Methods(http.MethodPost)
	router.HandleFunc(AllocationAllocated, c.Allocation.ListAllocatedHandler).Methods(http.MethodGet)
	router.HandleFunc(AllocationUnallocated, c.Allocation.ListUnallocatedHandler).Methods(http.MethodGet)
	router.HandleFunc(AllocationNegotiate, c.Allocation.ResolveNegotiationHandler).Methods(http.MethodPost)
	router.HandleFunc(AllocationCompliance, c.Allocation.ComplianceAuditHandler).Methods(http.MethodGet)

	router.HandleFunc(ReportsExcel, c.Reports.ExcelReportHandler).Methods(http.MethodGet)
	router.HandleFunc(ReportsPDF, c.Reports.PDFReportHandler).Methods(http.MethodGet)

	return router
}
