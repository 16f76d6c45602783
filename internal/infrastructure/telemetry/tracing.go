package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/pos/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for application service spans.
const TracerName = "github.com/pos/backend"

// Span attribute keys for sales and report operations.
var (
	AttrSaleID     = attribute.Key("sale_id")
	AttrQuantity   = attribute.Key("quantity")
	AttrAmount     = attribute.Key("amount")
	AttrReportFrom = attribute.Key("report.from")
	AttrReportTo   = attribute.Key("report.to")
	AttrErrorCode  = attribute.Key("error.code")
)

// RejectedEvent is the span event recorded for business rejections.
const RejectedEvent = "rejected"

// StartServiceSpan starts an internal span named "{service}.{method}",
// e.g. "sales.record". The caller ends it.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.Tracer(TracerName).Start(ctx, fmt.Sprintf("%s.%s", service, method), opts...)
}

// RecordError annotates span with err. Domain rejections such as
// insufficient stock are expected outcomes: they get an error.code attribute
// and a "rejected" event but leave the status unset. Anything else,
// including storage failures, marks the span as failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}

	var de *shared.DomainError
	if errors.As(err, &de) && de.Code != shared.CodeStorageError {
		span.SetAttributes(AttrErrorCode.String(de.Code))
		span.AddEvent(RejectedEvent, trace.WithAttributes(AttrErrorCode.String(de.Code)))
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
