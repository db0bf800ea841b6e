package controllers

import (
	"net/http"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/reports"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/services"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type ReportsController struct {
	reportService *services.ReportService
}

func NewReportsController(s *services.ReportService) *ReportsController {
	return &ReportsController{reportService: s}
}

// GET /api/reports/excel
func (c *ReportsController) ExcelReportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := c.reportService.ExcelReport(r.Context())
	if err != nil {
		utils.Logger.WithField("handler", "ExcelReportHandler").WithError(err).Error("Report generation failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithFile(w, reports.ExcelContentType, reports.ExcelFilename, data)
}

// GET /api/reports/pdf
func (c *ReportsController) PDFReportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := c.reportService.PDFReport(r.Context())
	if err != nil {
		utils.Logger.WithField("handler", "PDFReportHandler").WithError(err).Error("Report generation failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithFile(w, reports.PDFContentType, reports.PDFFilename, data)
}
