package core

import (
	"context"
	"errors"
	"testing"
)

func TestEngineRoutesByExactPairString(t *testing.T) {
	eng := NewMatcherEngine()
	ctx := context.Background()

	mustIngest(t, eng, ctx, create("1", "BUY", "100", "1"))
	mustIngest(t, eng, ctx, create("2", "BUY", "100", "1"))

	// Same symbols, different case: a distinct pair, no normalization.
	btc := RawCommand{Op: OpCreate, OrderID: "3", Pair: "btc/usdc", Side: Buy, LimitPrice: "1", Amount: "1"}
	mustIngest(t, eng, ctx, btc)

	res := eng.Finish()
	if len(res.OrderBooks) != 2 {
		t.Fatalf("got %d books, want 2 distinct pairs: %+v", len(res.OrderBooks), res.OrderBooks)
	}
}

func TestEngineAggregatesTradesInBookInsertionOrder(t *testing.T) {
	eng := NewMatcherEngine()
	ctx := context.Background()

	ethCmds := []RawCommand{
		{Op: OpCreate, OrderID: "e1", Pair: "ETH/USDC", Side: Sell, LimitPrice: "2000", Amount: "1"},
		{Op: OpCreate, OrderID: "e2", Pair: "ETH/USDC", Side: Buy, LimitPrice: "2000", Amount: "1"},
	}
	btcCmds := []RawCommand{
		{Op: OpCreate, OrderID: "b1", Pair: "BTC/USDC", Side: Sell, LimitPrice: "60000", Amount: "1"},
		{Op: OpCreate, OrderID: "b2", Pair: "BTC/USDC", Side: Buy, LimitPrice: "60000", Amount: "1"},
	}
	for _, c := range ethCmds {
		mustIngest(t, eng, ctx, c)
	}
	for _, c := range btcCmds {
		mustIngest(t, eng, ctx, c)
	}

	res := eng.Finish()
	if len(res.Trades) != 2 {
		t.Fatalf("got %d trades, want 2: %+v", len(res.Trades), res.Trades)
	}
	if res.Trades[0].Pair != "ETH/USDC" || res.Trades[1].Pair != "BTC/USDC" {
		t.Errorf("trades = %+v, want ETH book's trade before BTC book's (first-referenced pair first)", res.Trades)
	}
	if res.OrderBooks[0].Pair != "ETH/USDC" || res.OrderBooks[1].Pair != "BTC/USDC" {
		t.Errorf("order books = %+v, want same pair-insertion order", res.OrderBooks)
	}
}

func TestIngestRejectsMalformedCommand(t *testing.T) {
	eng := NewMatcherEngine()
	err := eng.Ingest(context.Background(), RawCommand{Op: "BOGUS", OrderID: "1", Pair: "BTC/USDC"})
	if !errors.Is(err, ErrMalformedCommand) {
		t.Errorf("Ingest() error = %v, want ErrMalformedCommand", err)
	}
}

func TestEmptyEngineFinishIsEmpty(t *testing.T) {
	eng := NewMatcherEngine()
	res := eng.Finish()
	if len(res.Trades) != 0 || len(res.OrderBooks) != 0 {
		t.Errorf("Finish() on empty engine = %+v, want empty", res)
	}
}

func mustIngest(t *testing.T, eng *MatcherEngine, ctx context.Context, cmd RawCommand) {
	t.Helper()
	if err := eng.Ingest(ctx, cmd); err != nil {
		t.Fatalf("Ingest(%+v) returned error: %v", cmd, err)
	}
}
