package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is the calendar granularity of a bucket
type Period string

const (
	PeriodDay   Period = "daily"
	PeriodMonth Period = "monthly"
	PeriodYear  Period = "yearly"
)

// Granularity returns the ledger grouping unit of the period
func (p Period) Granularity() sales.Granularity {
	switch p {
	case PeriodMonth:
		return sales.ByMonth
	case PeriodYear:
		return sales.ByYear
	default:
		return sales.ByDay
	}
}

// Layout returns the label layout for the period
func (p Period) Layout() string {
	return p.Granularity().Layout()
}

// IsValid reports whether the period is known
func (p Period) IsValid() bool {
	return p == PeriodDay || p == PeriodMonth || p == PeriodYear
}

// Start returns the start of the period containing t in loc
func (p Period) Start(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	switch p {
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case PeriodYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

// Bounds returns [start, end) of the period containing t in loc
func (p Period) Bounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := p.Start(t, loc)
	switch p {
	case PeriodMonth:
		return start, start.AddDate(0, 1, 0)
	case PeriodYear:
		return start, start.AddDate(1, 0, 0)
	default:
		return start, start.AddDate(0, 0, 1)
	}
}

// Bucket is the sum of sale totals within one calendar period
type Bucket struct {
	Label string
	Start time.Time
	Total decimal.Decimal
	Count int
}

// Buckets turns grouped ledger totals into calendar buckets of period in
// loc, ascending. A label that does not parse as a period of that size is
// reported as a storage error.
func Buckets(totals []sales.PeriodTotal, period Period, loc *time.Location) ([]Bucket, error) {
	if loc == nil {
		loc = time.UTC
	}
	buckets := make([]Bucket, 0, len(totals))
	for _, t := range totals {
		start, err := time.ParseInLocation(period.Layout(), t.Period, loc)
		if err != nil {
			return nil, shared.NewStorageError(fmt.Errorf("bad %s period %q: %w", period, t.Period, err))
		}
		buckets = append(buckets, Bucket{
			Label: t.Period,
			Start: start,
			Total: shared.RoundMoney(t.Total),
			Count: int(t.Count),
		})
	}
	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].Start.Before(buckets[b].Start)
	})
	return buckets, nil
}

// DateRange converts an inclusive calendar-day range into [from, to) instants
// in loc. Returns a validation error when start is after end.
func DateRange(start, end time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	if from.After(last) {
		return time.Time{}, time.Time{}, shared.NewDomainError(shared.CodeInvalidInput, "Start date must not be after end date")
	}
	return from, last.AddDate(0, 0, 1), nil
}

// ProfitSnapshot holds the totals of the current day, month and year
type ProfitSnapshot struct {
	Daily   decimal.Decimal
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
	AsOf    time.Time
}

// RangeSummary totals the rows of a range report
type RangeSummary struct {
	From       time.Time
	To         time.Time
	Sales      []sales.SaleWithProduct
	Quantity   int64
	TotalPrice decimal.Decimal
}

// Summarize totals quantity and price over range report rows
func Summarize(from, to time.Time, rows []sales.SaleWithProduct) RangeSummary {
	s := RangeSummary{From: from, To: to, Sales: rows, TotalPrice: decimal.Zero}
	for _, r := range rows {
		s.Quantity += r.Quantity
		s.TotalPrice = s.TotalPrice.Add(r.TotalPrice)
	}
	s.TotalPrice = shared.RoundMoney(s.TotalPrice)
	return s
}
