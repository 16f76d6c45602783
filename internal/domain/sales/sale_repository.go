package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for the sale ledger
type SaleRepository interface {
	// FindByID finds a sale by its ID, returning shared.ErrSaleNotFound when missing
	FindByID(ctx context.Context, id int64) (*Sale, error)

	// Create appends a sale to the ledger and assigns its ID
	Create(ctx context.Context, sale *Sale) error

	// Delete removes a sale, returning shared.ErrSaleNotFound when no row was deleted
	Delete(ctx context.Context, id int64) error

	// ListWithProduct returns every sale joined with its product name, newest first
	ListWithProduct(ctx context.Context) ([]SaleWithProduct, error)

	// ListBetween returns sales with from <= sale_date < to joined with the
	// product name, oldest first
	ListBetween(ctx context.Context, from, to time.Time) ([]SaleWithProduct, error)

	// TotalsByPeriod sums total_price per calendar period of sale_date in
	// loc, oldest period first. Periods without sales are left out.
	TotalsByPeriod(ctx context.Context, granularity Granularity, loc *time.Location) ([]PeriodTotal, error)

	// SumBetween sums total_price for sales with from <= sale_date < to
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// SaleWithProduct is a ledger row joined with its product name
type SaleWithProduct struct {
	Sale
	ProductName string
}

// Granularity is the calendar unit ledger totals are grouped by
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
	ByYear  Granularity = "year"
)

// Layout returns the format of the period labels, e.g. 2006-01 for months
func (g Granularity) Layout() string {
	switch g {
	case ByMonth:
		return "2006-01"
	case ByYear:
		return "2006"
	default:
		return "2006-01-02"
	}
}

// IsValid reports whether the granularity is known
func (g Granularity) IsValid() bool {
	return g == ByDay || g == ByMonth || g == ByYear
}

// PeriodTotal is the summed ledger of one calendar period. Period is
// formatted with the granularity's Layout.
type PeriodTotal struct {
	Period string
	Total  decimal.Decimal
	Count  int64
}
