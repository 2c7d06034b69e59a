package core

import "github.com/lattice-markets/obengine/pkg/decimal"

// BookOrder is a resting order inside an OrderBook. Price is immutable
// after creation; Remaining only ever decreases, and the order is removed
// from the book the instant it reaches zero.
type BookOrder struct {
	ID        string
	Account   string
	Side      Side
	Pair      string
	Price     decimal.Decimal
	Remaining decimal.Decimal
	Ts        uint64
}

func orderIdentity(o *BookOrder) string { return o.ID }

func bidLess(a, b *BookOrder) bool {
	if !a.Price.Eq(b.Price) {
		return a.Price.Gt(b.Price)
	}
	return a.Ts < b.Ts
}

func askLess(a, b *BookOrder) bool {
	if !a.Price.Eq(b.Price) {
		return a.Price.Lt(b.Price)
	}
	return a.Ts < b.Ts
}

// OrderEntry is one resting order as it appears in a book snapshot.
type OrderEntry struct {
	ID        string `json:"id"`
	Account   string `json:"account"`
	Price     string `json:"price"`
	Remaining string `json:"remaining"`
}

func (o *BookOrder) toEntry() OrderEntry {
	return OrderEntry{
		ID:        o.ID,
		Account:   o.Account,
		Price:     o.Price.String(),
		Remaining: o.Remaining.String(),
	}
}

// BookSnapshot is the residual state of one pair's order book. Bids and
// Asks are in the heap's internal array order, not sorted priority order —
// see OrderBook.Snapshot.
type BookSnapshot struct {
	Pair string       `json:"pair"`
	Bids []OrderEntry `json:"bids"`
	Asks []OrderEntry `json:"asks"`
}
