package driver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-markets/obengine/pkg/core"
)

func TestRunFileEmptyInputProducesEmptyOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.json", []byte(`[]`), 0o644))

	cfg := FileConfig{InputPath: "in.json", OrderbookOutPath: "book.json", TradesOutPath: "trades.json"}
	result, err := RunFile(context.Background(), fs, cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.OrderBooks)

	tradesOut, err := afero.ReadFile(fs, "trades.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(tradesOut))

	bookOut, err := afero.ReadFile(fs, "book.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(bookOut))
}

func TestRunFileWritesTradesAndBook(t *testing.T) {
	fs := afero.NewMemMapFs()
	input := []map[string]string{
		{"type_op": "CREATE", "order_id": "1", "account_id": "a1", "pair": "BTC/USDC", "side": "SELL", "limit_price": "100", "amount": "1"},
		{"type_op": "CREATE", "order_id": "2", "account_id": "a2", "pair": "BTC/USDC", "side": "BUY", "limit_price": "100", "amount": "1"},
	}
	data, err := json.Marshal(input)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "in.json", data, 0o644))

	cfg := FileConfig{InputPath: "in.json", OrderbookOutPath: "book.json", TradesOutPath: "trades.json"}
	result, err := RunFile(context.Background(), fs, cfg)
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, "2", result.Trades[0].BuyOrderID)
	assert.Equal(t, "1", result.Trades[0].SellOrderID)

	require.Len(t, result.OrderBooks, 1)
	assert.Empty(t, result.OrderBooks[0].Bids)
	assert.Empty(t, result.OrderBooks[0].Asks)
}

func TestRunFileAbortsOnMalformedCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "in.json", []byte(`[{"type_op":"BOGUS","order_id":"1","pair":"BTC/USDC"}]`), 0o644))

	cfg := FileConfig{InputPath: "in.json", OrderbookOutPath: "book.json", TradesOutPath: "trades.json"}
	_, err := RunFile(context.Background(), fs, cfg)
	assert.Error(t, err)

	_, statErr := fs.Stat("book.json")
	assert.Error(t, statErr, "no output should be written on a failed run")
}

func TestRunFileMissingInputFails(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := FileConfig{InputPath: "missing.json", OrderbookOutPath: "book.json", TradesOutPath: "trades.json"}
	_, err := RunFile(context.Background(), fs, cfg)
	assert.Error(t, err)
}

func TestPublishTradesIgnoresNilSink(t *testing.T) {
	// Must not panic.
	PublishTrades(context.Background(), nil, []core.Trade{{BuyOrderID: "1"}})
}

func TestPublishTradesUsesMockSink(t *testing.T) {
	sink := &recordingSink{}
	trades := []core.Trade{{BuyOrderID: "1"}, {BuyOrderID: "2"}}
	PublishTrades(context.Background(), sink, trades)
	assert.Equal(t, trades, sink.published)
}

type recordingSink struct {
	published []core.Trade
}

func (r *recordingSink) PublishTrade(trade core.Trade) error {
	r.published = append(r.published, trade)
	return nil
}

func (r *recordingSink) Close() error { return nil }
