package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics component is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// SalesMetrics records sale and revocation activity of the inventory coordinator.
type SalesMetrics struct {
	recorded  *Counter
	revenue   *Counter
	revoked   *Counter
	rejected  *Counter
	duration  *Histogram
	soldUnits *Counter
}

// Outcome labels for sale operation durations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// NewSalesMetrics creates the sale counters on the given meter.
func NewSalesMetrics(meter metric.Meter) (*SalesMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	sm := &SalesMetrics{}
	var err error

	if sm.recorded, err = NewCounter(meter, "pos_sales_recorded_total", "Total number of sales recorded", "{sales}"); err != nil {
		return nil, err
	}
	if sm.revenue, err = NewCounter(meter, "pos_sales_revenue_total", "Total recorded sale value in cents", "{cents}"); err != nil {
		return nil, err
	}
	if sm.soldUnits, err = NewCounter(meter, "pos_sales_units_total", "Total product units sold", "{units}"); err != nil {
		return nil, err
	}
	if sm.revoked, err = NewCounter(meter, "pos_sales_revoked_total", "Total number of sales revoked", "{sales}"); err != nil {
		return nil, err
	}
	if sm.rejected, err = NewCounter(meter, "pos_sales_rejected_total", "Sale operations rejected before commit", "{sales}"); err != nil {
		return nil, err
	}
	sm.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "pos_sale_operation_duration_seconds",
		Description: "Duration of sale and revoke transactions",
		Unit:        "s",
		Boundaries:  SmallDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordSale counts a committed sale and its value.
func (sm *SalesMetrics) RecordSale(ctx context.Context, paymentMethod string, quantity int64, total decimal.Decimal) {
	method := AttrPaymentMethod.String(paymentMethod)
	sm.recorded.Inc(ctx, method)
	sm.soldUnits.Add(ctx, quantity, method)
	sm.revenue.Add(ctx, total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), method)
}

// RecordRevoke counts a revoked sale.
func (sm *SalesMetrics) RecordRevoke(ctx context.Context) {
	sm.revoked.Inc(ctx)
}

// RecordRejected counts an operation that failed with the given error code.
func (sm *SalesMetrics) RecordRejected(ctx context.Context, operation, reason string) {
	sm.rejected.Inc(ctx, AttrOperation.String(operation), AttrReason.String(reason))
}

// RecordDuration records how long a sale or revoke transaction took.
func (sm *SalesMetrics) RecordDuration(ctx context.Context, operation string, d time.Duration, success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	sm.duration.RecordDuration(ctx, d, AttrOperation.String(operation), AttrOutcome.String(outcome))
}
