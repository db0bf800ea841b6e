//go:build (dev_test || dev) && integration

package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/dtos"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/reports"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/routes"
	internal_utils "github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/utils"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-testhelpers"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

func submitBlock(t *testing.T, block string, grossAreas ...float64) []dtos.UnitSubmission {
	t.Helper()
	var total float64
	for _, g := range grossAreas {
		total += g
	}
	subs := make([]dtos.UnitSubmission, 0, len(grossAreas))
	for i, g := range grossAreas {
		subs = append(subs, dtos.UnitSubmission{
			UnitID:                 fmt.Sprintf("%s-U%d", block, i+1),
			Typology:               string(models.Typology2BR),
			NetArea:                g * 0.85,
			GrossArea:              g,
			FloorNumber:            i + 1,
			BlockName:              block,
			TotalBuildingGrossArea: total,
		})
	}

	client := h.NewHTTPClient()
	resp := h.DoRequest(h.BuildJSONRequest(http.MethodPost, h.BaseURL+routes.Units, subs), client)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, h.ReadBody(resp))
	return subs
}

func runAllocation(t *testing.T, method string) (*http.Response, string) {
	t.Helper()
	client := h.NewHTTPClient()
	req := h.BuildJSONRequest(http.MethodPost, h.BaseURL+routes.AllocationRun, dtos.RunAllocationRequest{DistributionMethod: method})
	resp := h.DoRequest(req, client)
	return resp, h.ReadBody(resp)
}

func TestHealthEndpoint(t *testing.T) {
	h.T = t
	resp := h.DoRequest(h.BuildRequest(http.MethodGet, h.BaseURL+routes.Health, nil), h.NewHTTPClient())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, h.ReadBody(resp))

	var body dtos.HealthCheckResponse
	h.DecodeJSON(resp, &body)
	assert.Equal(t, "OK", body.Status)
}

func TestRunAllocationRejectsUnknownMethod(t *testing.T) {
	h.T = t
	resp, body := runAllocation(t, "Random Draw")
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	assert.Contains(t, body, internal_utils.ErrCodeInvalidMethod)
}

func TestBlockByBlockAllocationEndToEnd(t *testing.T) {
	h.T = t
	block := testhelpers.UniqueBlockName("BBB")
	subs := submitBlock(t, block, 100, 100, 100, 100, 100, 100)

	resp, body := runAllocation(t, string(models.MethodBlockByBlock))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	listResp := h.DoRequest(h.BuildRequest(http.MethodGet, h.BaseURL+routes.AllocationAllocated, nil), h.NewHTTPClient())
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var allocated []models.Unit
	h.DecodeJSON(listResp, &allocated)

	owners := map[string]models.Owner{}
	for _, u := range allocated {
		if u.BlockName == block {
			owners[u.UnitID] = u.Owner
		}
	}
	require.Len(t, owners, len(subs))
	for i, s := range subs {
		want := models.OwnerDeveloper
		if i%2 == 1 {
			want = models.OwnerAuthority
		}
		assert.Equal(t, want, owners[s.UnitID], s.UnitID)
	}

	if h.DB != nil {
		stored, err := h.UnitRepo.GetByID(h.Ctx, subs[1].UnitID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.Allocated)
		assert.Equal(t, models.OwnerAuthority, stored.Owner)
	}
}

func TestDuplicateSubmissionIsRejected(t *testing.T) {
	h.T = t
	block := testhelpers.UniqueBlockName("DUP")
	subs := submitBlock(t, block, 80, 120)

	resp := h.DoRequest(h.BuildJSONRequest(http.MethodPost, h.BaseURL+routes.Units, subs[:1]), h.NewHTTPClient())
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body utils.ErrorResponse
	h.DecodeJSON(resp, &body)
	assert.Equal(t, internal_utils.ErrCodeDuplicateUnit, body.Code)
}

func TestReportDownloads(t *testing.T) {
	h.T = t
	submitBlock(t, testhelpers.UniqueBlockName("RPT"), 100, 150, 250)
	resp, body := runAllocation(t, string(models.MethodFullLottery))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	for path, contentType := range map[string]string{
		routes.ReportsExcel: reports.ExcelContentType,
		routes.ReportsPDF:   reports.PDFContentType,
	} {
		resp := h.DoRequest(h.BuildRequest(http.MethodGet, h.BaseURL+path, nil), h.NewHTTPClient())
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, contentType, resp.Header.Get("Content-Type"))
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), "attachment"))
		resp.Body.Close()
	}
}
