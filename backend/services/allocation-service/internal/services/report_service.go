package services

import (
	"context"
	"net/http"
	"time"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/reports"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type ReportService struct {
	unitRepo repositories.UnitRepository
	checker  *allocation.Checker
	now      func() time.Time
}

func NewReportService(unitRepo repositories.UnitRepository, checker *allocation.Checker) *ReportService {
	return &ReportService{unitRepo: unitRepo, checker: checker, now: time.Now}
}

func (s *ReportService) ExcelReport(ctx context.Context) ([]byte, error) {
	data, err := s.reportData(ctx)
	if err != nil {
		return nil, err
	}
	out, err := reports.RenderExcel(data)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to generate Excel report", Err: err}
	}
	return out, nil
}

func (s *ReportService) PDFReport(ctx context.Context) ([]byte, error) {
	data, err := s.reportData(ctx)
	if err != nil {
		return nil, err
	}
	out, err := reports.RenderPDF(data)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to generate PDF report", Err: err}
	}
	return out, nil
}

func (s *ReportService) reportData(ctx context.Context) (*reports.Data, error) {
	all, err := s.unitRepo.ListAll(ctx)
	if err != nil {
		return nil, &utils.AppError{StatusCode: http.StatusInternalServerError, Code: utils.ErrCodeInternal, Message: "Failed to load units", Err: err}
	}

	data := &reports.Data{GeneratedAt: s.now().UTC()}
	for _, u := range all {
		if u.Allocated {
			data.Units = append(data.Units, *u)
		}
	}
	if len(data.Units) == 0 {
		return nil, &utils.AppError{StatusCode: http.StatusNotFound, Code: utils.ErrCodeNotFound, Message: "No allocated units found to generate a report"}
	}

	for _, b := range summarizeBlocks(all, s.checker) {
		data.Blocks = append(data.Blocks, reports.BlockRow{BlockSummary: b.BlockSummary, Compliant: b.Compliant})
	}
	return data, nil
}

