package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lattice-markets/obengine/pkg/bookheap"
	"github.com/lattice-markets/obengine/pkg/decimal"
	obtel "github.com/lattice-markets/obengine/pkg/otel"
)

// nowMillis is a var so tests can pin the wall clock on Trade.Ts.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// OrderBook holds one pair's resting liquidity: a bid heap, an ask heap, an
// identity index shared by both, a monotonic arrival sequence, and every
// trade this book has produced. It is not safe for concurrent use — see
// MatcherEngine for the ownership model.
type OrderBook struct {
	Pair string

	bids    *bookheap.Queue[*BookOrder]
	asks    *bookheap.Queue[*BookOrder]
	idIndex map[string]*BookOrder
	seq     uint64
	trades  []Trade
}

// NewOrderBook returns an empty book for pair.
func NewOrderBook(pair string) *OrderBook {
	return &OrderBook{
		Pair:    pair,
		bids:    bookheap.New(bidLess, orderIdentity),
		asks:    bookheap.New(askLess, orderIdentity),
		idIndex: make(map[string]*BookOrder),
	}
}

// Process drives the book's state machine for a single command. DELETE of
// an unknown id is a silent no-op. CREATE with amount "0" is a silent skip.
// CREATE reusing a live order_id fails with ErrDuplicateOrderID.
func (ob *OrderBook) Process(ctx context.Context, cmd RawCommand) error {
	ctx, span := obtel.StartSpan(ctx, obtel.SpanProcess,
		attribute.String(obtel.AttributePair, ob.Pair),
		attribute.String(obtel.AttributeOrderID, cmd.OrderID),
		attribute.String(obtel.AttributeOp, string(cmd.Op)),
		attribute.String(obtel.AttributeSide, string(cmd.Side)),
	)
	defer span.End()

	switch cmd.Op {
	case OpDelete:
		ob.processDelete(cmd.OrderID)
		return nil
	case OpCreate:
		return ob.processCreate(ctx, cmd)
	default:
		return fmt.Errorf("%w: invalid type_op %q", ErrMalformedCommand, cmd.Op)
	}
}

func (ob *OrderBook) processDelete(id string) {
	order, ok := ob.idIndex[id]
	if !ok {
		return
	}
	delete(ob.idIndex, id)
	switch order.Side {
	case Buy:
		ob.bids.Remove(id)
	case Sell:
		ob.asks.Remove(id)
	}
}

func (ob *OrderBook) processCreate(ctx context.Context, cmd RawCommand) error {
	if _, exists := ob.idIndex[cmd.OrderID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderID, cmd.OrderID)
	}

	price, err := decimal.Parse(cmd.LimitPrice)
	if err != nil {
		return fmt.Errorf("limit_price %q: %w", cmd.LimitPrice, err)
	}
	amount, err := decimal.Parse(cmd.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", cmd.Amount, err)
	}
	if amount.IsZero() {
		return nil
	}

	order := &BookOrder{
		ID:        cmd.OrderID,
		Account:   cmd.AccountID,
		Side:      cmd.Side,
		Pair:      cmd.Pair,
		Price:     price,
		Remaining: amount,
		Ts:        ob.seq,
	}
	ob.seq++

	ob.match(ctx, order)

	if order.Remaining.IsPositive() {
		ob.add(order)
	}
	return nil
}

func (ob *OrderBook) add(o *BookOrder) {
	ob.idIndex[o.ID] = o
	if o.Side == Buy {
		ob.bids.PushOrder(o)
	} else {
		ob.asks.PushOrder(o)
	}
}

// match crosses incoming against the opposite side until it is either
// fully filled or no longer crosses the best resting price.
func (ob *OrderBook) match(ctx context.Context, incoming *BookOrder) {
	_, span := obtel.StartSpan(ctx, obtel.SpanMatch,
		attribute.String(obtel.AttributePair, ob.Pair),
		attribute.String(obtel.AttributeOrderID, incoming.ID),
	)
	defer span.End()

	opposite := ob.asks
	if incoming.Side == Sell {
		opposite = ob.bids
	}

	tradeCount := 0
	for incoming.Remaining.IsPositive() {
		best, ok := opposite.PeekTop()
		if !ok {
			break
		}

		var crosses bool
		if incoming.Side == Buy {
			crosses = incoming.Price.Gte(best.Price)
		} else {
			crosses = incoming.Price.Lte(best.Price)
		}
		if !crosses {
			break
		}

		qty := decimal.Min(incoming.Remaining, best.Remaining)

		buyID, sellID := best.ID, incoming.ID
		if incoming.Side == Buy {
			buyID, sellID = incoming.ID, best.ID
		}

		ob.trades = append(ob.trades, Trade{
			Pair:        ob.Pair,
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			Price:       best.Price.String(),
			Amount:      qty.String(),
			Ts:          nowMillis(),
		})
		tradeCount++

		incoming.Remaining = decimal.Sub(incoming.Remaining, qty)
		best.Remaining = decimal.Sub(best.Remaining, qty)

		if best.Remaining.IsZero() {
			opposite.Remove(best.ID)
			delete(ob.idIndex, best.ID)
		}
	}

	span.SetAttributes(
		attribute.Int(obtel.AttributeTradeCount, tradeCount),
		attribute.String(obtel.AttributeRemainQty, incoming.Remaining.String()),
	)
	if tradeCount > 0 {
		log.Ctx(ctx).Debug().
			Str("pair", ob.Pair).
			Str("order_id", incoming.ID).
			Int("trades", tradeCount).
			Msg("order matched")
	}
}

// Snapshot returns the book's residual state. Bids and Asks are emitted in
// the heap's internal array order — deliberately not sorted — so the
// output reflects exactly what container/heap holds after the full command
// stream has been applied.
func (ob *OrderBook) Snapshot() BookSnapshot {
	bids := ob.bids.Items()
	asks := ob.asks.Items()

	snap := BookSnapshot{
		Pair: ob.Pair,
		Bids: make([]OrderEntry, 0, len(bids)),
		Asks: make([]OrderEntry, 0, len(asks)),
	}
	for _, o := range bids {
		snap.Bids = append(snap.Bids, o.toEntry())
	}
	for _, o := range asks {
		snap.Asks = append(snap.Asks, o.toEntry())
	}
	return snap
}

// Trades returns every trade this book has produced, in generation order.
func (ob *OrderBook) Trades() []Trade {
	return ob.trades
}
