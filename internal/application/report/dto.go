package report

import (
	"time"

	appsales "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/shop"
)

// DateRangeQuery is the inclusive calendar-day range of a report
type DateRangeQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// BucketResponse is one calendar bucket of a totals report
type BucketResponse struct {
	SaleDate   string  `json:"sale_date"`
	TotalSales float64 `json:"total_sales"`
	SalesCount int     `json:"sales_count"`
}

// RangeReportResponse lists the sales of a date range with totals
type RangeReportResponse struct {
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	Sales         []appsales.SaleResponse `json:"sales"`
	TotalQuantity int64                   `json:"total_quantity"`
	TotalSales    float64                 `json:"total_sales"`
}

// ProfitResponse holds the totals of the current day, month and year
type ProfitResponse struct {
	Daily   float64   `json:"daily"`
	Monthly float64   `json:"monthly"`
	Yearly  float64   `json:"yearly"`
	AsOf    time.Time `json:"as_of"`
}

// PDFExport is a rendered range report
type PDFExport struct {
	Filename string
	Data     []byte
	// Location is where the archive stored the document, empty when not archived
	Location string
}

// SalesReportDocument is the data printed on a range report
type SalesReportDocument struct {
	Shop          *shop.Profile
	StartDate     time.Time
	EndDate       time.Time
	Timezone      string
	Sales         []appsales.SaleResponse
	TotalQuantity int64
	TotalSales    float64
	GeneratedAt   time.Time
}

// ToBucketResponses converts report buckets to responses
func ToBucketResponses(buckets []report.Bucket) []BucketResponse {
	out := make([]BucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = BucketResponse{
			SaleDate:   b.Label,
			TotalSales: b.Total.InexactFloat64(),
			SalesCount: b.Count,
		}
	}
	return out
}

// ToProfitResponse converts a profit snapshot to ProfitResponse
func ToProfitResponse(p report.ProfitSnapshot) *ProfitResponse {
	return &ProfitResponse{
		Daily:   p.Daily.InexactFloat64(),
		Monthly: p.Monthly.InexactFloat64(),
		Yearly:  p.Yearly.InexactFloat64(),
		AsOf:    p.AsOf,
	}
}
