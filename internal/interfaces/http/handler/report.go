package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/application/report"
)

// ArchiveLocationHeader carries where an exported PDF was archived
const ArchiveLocationHeader = "X-Archive-Location"

// ReportHandler handles the sales report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily godoc
// @Summary      Daily sales totals
// @Description  Sale totals per calendar day in the reporting timezone, ascending
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.BucketResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	h.respond(c)(h.reportService.DailyTotals(c.Request.Context()))
}

// Monthly godoc
// @Summary      Monthly sales totals
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.BucketResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	h.respond(c)(h.reportService.MonthlyTotals(c.Request.Context()))
}

// Yearly godoc
// @Summary      Yearly sales totals
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]report.BucketResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/yearly [get]
func (h *ReportHandler) Yearly(c *gin.Context) {
	h.respond(c)(h.reportService.YearlyTotals(c.Request.Context()))
}

func (h *ReportHandler) respond(c *gin.Context) func([]report.BucketResponse, error) {
	return func(buckets []report.BucketResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, buckets)
	}
}

// Range godoc
// @Summary      Sales report for a date range
// @Description  Sales of the inclusive calendar-day range with quantity and price totals
// @Tags         reports
// @Produce      json
// @Param        start_date query string true "First day (YYYY-MM-DD)"
// @Param        end_date query string true "Last day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=report.RangeReportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/range [get]
func (h *ReportHandler) Range(c *gin.Context) {
	var query report.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := report.ParseRange(query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.reportService.RangeReport(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RangePDF godoc
// @Summary      Export a range report as PDF
// @Description  Renders the range report with the shop header. When archiving is
// @Description  enabled the X-Archive-Location header names the stored copy.
// @Tags         reports
// @Produce      application/pdf
// @Param        start_date query string true "First day (YYYY-MM-DD)"
// @Param        end_date query string true "Last day (YYYY-MM-DD)"
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/range/pdf [get]
func (h *ReportHandler) RangePDF(c *gin.Context) {
	var query report.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}
	start, end, err := report.ParseRange(query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	export, err := h.reportService.ExportRangeReportPDF(c.Request.Context(), start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if export.Location != "" {
		c.Header(ArchiveLocationHeader, export.Location)
	}
	c.Data(http.StatusOK, "application/pdf", export.Data)
}

// Profit godoc
// @Summary      Profit snapshot
// @Description  Sale totals of the current day, month and year
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.ProfitResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/profit [get]
func (h *ReportHandler) Profit(c *gin.Context) {
	snapshot, err := h.reportService.ProfitSnapshot(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}
