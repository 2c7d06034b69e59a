package core

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	obtel "github.com/lattice-markets/obengine/pkg/otel"
)

// MatcherEngine owns every pair's OrderBook for one run (one file batch, or
// one HTTP request). Books are created lazily on first reference and kept
// for the engine's lifetime; pairs are matched by exact string equality,
// no normalization. A MatcherEngine is single-owner: concurrent requests
// must each construct their own (see spec §5).
type MatcherEngine struct {
	books     map[string]*OrderBook
	pairOrder []string
}

// NewMatcherEngine returns an engine with no books.
func NewMatcherEngine() *MatcherEngine {
	return &MatcherEngine{books: make(map[string]*OrderBook)}
}

// BookFor returns the OrderBook for pair, creating it on first reference.
func (m *MatcherEngine) BookFor(pair string) *OrderBook {
	book, ok := m.books[pair]
	if !ok {
		book = NewOrderBook(pair)
		m.books[pair] = book
		m.pairOrder = append(m.pairOrder, pair)
	}
	return book
}

// Ingest validates cmd and routes it to the appropriate book.
func (m *MatcherEngine) Ingest(ctx context.Context, cmd RawCommand) error {
	ctx, span := obtel.StartSpan(ctx, obtel.SpanIngest,
		attribute.String(obtel.AttributePair, cmd.Pair),
		attribute.String(obtel.AttributeOrderID, cmd.OrderID),
	)
	defer span.End()

	if err := cmd.Validate(); err != nil {
		return err
	}
	return m.BookFor(cmd.Pair).Process(ctx, cmd)
}

// Result is the aggregated output of a finished run.
type Result struct {
	Trades     []Trade
	OrderBooks []BookSnapshot
}

// Finish concatenates every book's trades in book-insertion order and
// emits one snapshot per pair in that same order.
func (m *MatcherEngine) Finish() Result {
	res := Result{Trades: []Trade{}, OrderBooks: []BookSnapshot{}}
	for _, pair := range m.pairOrder {
		book := m.books[pair]
		res.Trades = append(res.Trades, book.Trades()...)
		res.OrderBooks = append(res.OrderBooks, book.Snapshot())
	}
	return res
}
