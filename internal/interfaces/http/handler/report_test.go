package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	appreport "github.com/pos/backend/internal/application/report"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

// seedReportSales records 30+20 on 2024-01-01 and 50 on 2024-02-01
func seedReportSales(t *testing.T, api *testAPI) {
	t.Helper()
	product := api.seedCatalog("Bread", 10, 100)

	for _, s := range []struct {
		qty int
		at  string
	}{
		{3, "2024-01-01T09:00:00Z"},
		{2, "2024-01-01T17:30:00Z"},
		{5, "2024-02-01T08:15:00Z"},
	} {
		w := api.do(http.MethodPost, "/api/v1/sales", identity.RoleCashier, map[string]any{
			"product_id":     product.ID,
			"quantity":       s.qty,
			"payment_method": "Cash",
			"sale_date":      s.at,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestReportHandler_Totals(t *testing.T) {
	api := newTestAPI(t, apiOptions{now: reportNow})
	seedReportSales(t, api)

	t.Run("daily buckets ascending", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/daily", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var buckets []appreport.BucketResponse
		decode(t, w, &buckets)
		require.Len(t, buckets, 2)
		assert.Equal(t, "2024-01-01", buckets[0].SaleDate)
		assert.Equal(t, 50.0, buckets[0].TotalSales)
		assert.Equal(t, 2, buckets[0].SalesCount)
		assert.Equal(t, "2024-02-01", buckets[1].SaleDate)
		assert.Equal(t, 50.0, buckets[1].TotalSales)
	})

	t.Run("monthly and yearly", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/monthly", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var months []appreport.BucketResponse
		decode(t, w, &months)
		assert.Len(t, months, 2)

		w = api.do(http.MethodGet, "/api/v1/reports/sales/yearly", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var years []appreport.BucketResponse
		decode(t, w, &years)
		require.Len(t, years, 1)
		assert.Equal(t, 100.0, years[0].TotalSales)
	})

	t.Run("profit snapshot", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/profit", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var profit appreport.ProfitResponse
		decode(t, w, &profit)
		assert.Equal(t, 50.0, profit.Daily)
		assert.Equal(t, 50.0, profit.Monthly)
		assert.Equal(t, 100.0, profit.Yearly)
	})

	t.Run("cashier cannot read reports", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/reports/sales/daily",
			"/api/v1/reports/profit",
			"/api/v1/reports/sales/range?start_date=2024-01-01&end_date=2024-01-31",
		} {
			w := api.do(http.MethodGet, path, identity.RoleCashier, nil)
			assert.Equal(t, http.StatusForbidden, w.Code, path)
		}
	})
}

func TestReportHandler_Range(t *testing.T) {
	api := newTestAPI(t, apiOptions{now: reportNow})
	seedReportSales(t, api)

	t.Run("inclusive range", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/range?start_date=2024-01-01&end_date=2024-01-31", identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var report appreport.RangeReportResponse
		decode(t, w, &report)
		assert.Equal(t, "2024-01-01", report.StartDate)
		assert.Equal(t, "2024-01-31", report.EndDate)
		assert.Len(t, report.Sales, 2)
		assert.Equal(t, int64(5), report.TotalQuantity)
		assert.Equal(t, 50.0, report.TotalSales)
	})

	t.Run("missing dates", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/range?start_date=2024-01-01", identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w, nil).Error.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/range?start_date=01/01/2024&end_date=2024-01-31", identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w, nil).Error.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		w := api.do(http.MethodGet, "/api/v1/reports/sales/range?start_date=2024-02-01&end_date=2024-01-01", identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReportHandler_RangePDF(t *testing.T) {
	const path = "/api/v1/reports/sales/range/pdf?start_date=2024-01-01&end_date=2024-01-31"
	pdf := []byte("%PDF-1.4 sales report")

	t.Run("export disabled", func(t *testing.T) {
		api := newTestAPI(t, apiOptions{now: reportNow})
		w := api.do(http.MethodGet, path, identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeUnavailable, decode(t, w, nil).Error.Code)
	})

	t.Run("renders and archives", func(t *testing.T) {
		api := newTestAPI(t, apiOptions{
			now:     reportNow,
			printer: &fakePrinter{data: pdf},
			archive: &fakeArchive{},
		})
		seedReportSales(t, api)

		w := api.do(http.MethodGet, path, identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="sales-report-2024-01-01-to-2024-01-31.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "file:///archive/reports/2024/02/sales-report-2024-01-01-to-2024-01-31.pdf", w.Header().Get(ArchiveLocationHeader))
		assert.Equal(t, pdf, w.Body.Bytes())

		require.Len(t, api.printer.docs, 1)
		assert.Len(t, api.printer.docs[0].Sales, 2)
	})

	t.Run("archive failure still serves the pdf", func(t *testing.T) {
		api := newTestAPI(t, apiOptions{
			now:     reportNow,
			printer: &fakePrinter{data: pdf},
			archive: &fakeArchive{err: errors.New("disk full")},
		})

		w := api.do(http.MethodGet, path, identity.RoleAdmin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get(ArchiveLocationHeader))
		assert.Equal(t, pdf, w.Body.Bytes())
	})

	t.Run("render failure", func(t *testing.T) {
		api := newTestAPI(t, apiOptions{
			now:     reportNow,
			printer: &fakePrinter{err: errors.New("chrome crashed")},
		})

		w := api.do(http.MethodGet, path, identity.RoleAdmin, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeRenderFailed, decode(t, w, nil).Error.Code)
	})
}
