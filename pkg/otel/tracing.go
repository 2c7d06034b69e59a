package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names used across the matching engine.
const (
	SpanIngest  = "engine.ingest"
	SpanProcess = "orderbook.process"
	SpanMatch   = "orderbook.match"
)

// Attribute keys used across the matching engine.
const (
	AttributePair       = "order.pair"
	AttributeOrderID    = "order.id"
	AttributeSide       = "order.side"
	AttributeOp         = "order.op"
	AttributeTradeCount = "trade.count"
	AttributeRemainQty  = "order.remaining"
)

// StartSpan starts a span with the given name and attributes using the
// package tracer.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
