// Package report serves read-only views over the sale ledger: calendar
// totals, date-range reports, the profit snapshot and PDF export.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shop"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DateLayout is the calendar date format of report ranges and labels
const DateLayout = "2006-01-02"

// ReportPrinter renders a range report to PDF
type ReportPrinter interface {
	PrintSalesReport(ctx context.Context, doc *SalesReportDocument) ([]byte, error)
}

// ReportArchive keeps a copy of exported documents
type ReportArchive interface {
	// Store saves data under key and returns where it was stored
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ErrExportUnavailable is returned when no PDF printer is configured
var ErrExportUnavailable = shared.NewDomainError(shared.CodeUnavailable, "PDF export is not enabled")

// Options configures the report service
type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Printer  ReportPrinter
	Archive  ReportArchive
	Logger   *zap.Logger
}

// Service provides the reporting operations
type Service struct {
	saleRepo  sales.SaleRepository
	ownerRepo shop.OwnerRepository
	loc       *time.Location
	clock     func() time.Time
	printer   ReportPrinter
	archive   ReportArchive
	logger    *zap.Logger
}

// NewService creates a new report Service
func NewService(saleRepo sales.SaleRepository, ownerRepo shop.OwnerRepository, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		saleRepo:  saleRepo,
		ownerRepo: ownerRepo,
		loc:       opts.Location,
		clock:     opts.Clock,
		printer:   opts.Printer,
		archive:   opts.Archive,
		logger:    opts.Logger,
	}
}

// Location returns the reporting timezone
func (s *Service) Location() *time.Location {
	return s.loc
}

// DailyTotals groups sale totals by calendar day
func (s *Service) DailyTotals(ctx context.Context) ([]BucketResponse, error) {
	return s.Totals(ctx, report.PeriodDay)
}

// MonthlyTotals groups sale totals by calendar month
func (s *Service) MonthlyTotals(ctx context.Context) ([]BucketResponse, error) {
	return s.Totals(ctx, report.PeriodMonth)
}

// YearlyTotals groups sale totals by calendar year
func (s *Service) YearlyTotals(ctx context.Context) ([]BucketResponse, error) {
	return s.Totals(ctx, report.PeriodYear)
}

// Totals groups sale totals by period in the reporting timezone. Buckets
// are ascending and periods without sales are left out.
func (s *Service) Totals(ctx context.Context, period report.Period) ([]BucketResponse, error) {
	if !period.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown report period: "+string(period))
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "totals",
		telemetry.AttrReportPeriod.String(string(period)),
	)
	defer span.End()

	totals, err := s.saleRepo.TotalsByPeriod(ctx, period.Granularity(), s.loc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	buckets, err := report.Buckets(totals, period, s.loc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return ToBucketResponses(buckets), nil
}

// ParseDate parses a report date given as 2006-01-02 or RFC 3339
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, shared.NewDomainError(shared.CodeInvalidInput,
		fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", value))
}

// ParseRange parses both ends of a date range query
func ParseRange(q DateRangeQuery) (time.Time, time.Time, error) {
	start, err := ParseDate(q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// RangeReport returns the sales of the inclusive calendar-day range
// [start, end] in the reporting timezone, oldest first.
func (s *Service) RangeReport(ctx context.Context, start, end time.Time) (*RangeReportResponse, error) {
	summary, err := s.rangeSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &RangeReportResponse{
		StartDate:     summary.From.Format(DateLayout),
		EndDate:       summary.To.AddDate(0, 0, -1).Format(DateLayout),
		Sales:         appsales.ToSaleResponses(summary.Sales),
		TotalQuantity: summary.Quantity,
		TotalSales:    summary.TotalPrice.InexactFloat64(),
	}, nil
}

func (s *Service) rangeSummary(ctx context.Context, start, end time.Time) (report.RangeSummary, error) {
	from, to, err := report.DateRange(start, end, s.loc)
	if err != nil {
		return report.RangeSummary{}, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "range",
		telemetry.AttrReportFrom.String(from.Format(DateLayout)),
		telemetry.AttrReportTo.String(to.Format(DateLayout)),
	)
	defer span.End()

	rows, err := s.saleRepo.ListBetween(ctx, from, to)
	if err != nil {
		telemetry.RecordError(span, err)
		return report.RangeSummary{}, err
	}
	return report.Summarize(from, to, rows), nil
}

// ProfitSnapshot sums the sales of the current day, month and year as
// seen by the clock at call time.
func (s *Service) ProfitSnapshot(ctx context.Context) (*ProfitResponse, error) {
	now := s.clock().In(s.loc)

	sums := make(map[report.Period]decimal.Decimal, 3)
	for _, period := range []report.Period{report.PeriodDay, report.PeriodMonth, report.PeriodYear} {
		from, to := period.Bounds(now, s.loc)
		sum, err := s.saleRepo.SumBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		sums[period] = shared.RoundMoney(sum)
	}

	return ToProfitResponse(report.ProfitSnapshot{
		Daily:   sums[report.PeriodDay],
		Monthly: sums[report.PeriodMonth],
		Yearly:  sums[report.PeriodYear],
		AsOf:    now,
	}), nil
}

// SalesHistory returns every sale with its product name, newest first
func (s *Service) SalesHistory(ctx context.Context) ([]appsales.SaleResponse, error) {
	rows, err := s.saleRepo.ListWithProduct(ctx)
	if err != nil {
		return nil, err
	}
	return appsales.ToSaleResponses(rows), nil
}

// ExportRangeReportPDF renders the range report with the shop header to
// PDF. When an archive is configured the document is also stored there; a
// failed archive write is logged and does not fail the export.
func (s *Service) ExportRangeReportPDF(ctx context.Context, start, end time.Time) (*PDFExport, error) {
	if s.printer == nil {
		return nil, ErrExportUnavailable
	}

	summary, err := s.rangeSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	doc := &SalesReportDocument{
		StartDate:     summary.From,
		EndDate:       summary.To.AddDate(0, 0, -1),
		Timezone:      s.loc.String(),
		Sales:         appsales.ToSaleResponses(summary.Sales),
		TotalQuantity: summary.Quantity,
		TotalSales:    summary.TotalPrice.InexactFloat64(),
		GeneratedAt:   s.clock().In(s.loc),
	}
	owner, err := s.ownerRepo.Get(ctx)
	switch {
	case err == nil:
		doc.Shop = &owner.Profile
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "export_pdf")
	defer span.End()

	data, err := s.printer.PrintSalesReport(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Using(ctx, s.logger).Error("Failed to render sales report", zap.Error(err))
		return nil, shared.NewDomainError("RENDER_FAILED", "Failed to render the sales report")
	}

	export := &PDFExport{
		Filename: fmt.Sprintf("sales-report-%s-to-%s.pdf", doc.StartDate.Format(DateLayout), doc.EndDate.Format(DateLayout)),
		Data:     data,
	}

	if s.archive != nil {
		key := fmt.Sprintf("reports/%s/%s", doc.GeneratedAt.Format("2006/01"), export.Filename)
		location, err := s.archive.Store(ctx, key, data, "application/pdf")
		if err != nil {
			logger.Using(ctx, s.logger).Warn("Failed to archive sales report",
				zap.String("key", key),
				zap.Error(err),
			)
		} else {
			export.Location = location
		}
	}

	logger.Using(ctx, s.logger).Info("Sales report exported",
		zap.String("file", export.Filename),
		zap.Int("bytes", len(data)),
		zap.Int("sales", len(doc.Sales)),
		zap.String("archived_at", export.Location),
	)
	return export, nil
}
