// Package driver turns a source of RawCommands into a finished
// MatcherEngine run: the file driver decodes a JSON array from a
// filesystem and writes the two output files, the HTTP driver decodes an
// already-parsed request body and returns the result in-process.
package driver

import (
	"context"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/afero"

	"github.com/lattice-markets/obengine/pkg/core"
	"github.com/lattice-markets/obengine/pkg/logging"
	"github.com/lattice-markets/obengine/pkg/messaging"
)

// RunCommands feeds every command in cmds through a fresh MatcherEngine, in
// order, and returns the aggregated result. The first command that fails
// aborts the whole run — there are no partial results.
func RunCommands(ctx context.Context, cmds []core.RawCommand) (core.Result, error) {
	engine := core.NewMatcherEngine()
	for i, cmd := range cmds {
		if err := engine.Ingest(ctx, cmd); err != nil {
			return core.Result{}, fmt.Errorf("command %d (order_id=%q): %w", i, cmd.OrderID, err)
		}
	}
	return engine.Finish(), nil
}

// RunStream decodes a JSON array of RawCommand from r token by token —
// rather than unmarshaling the whole array at once — so a large input file
// does not require holding the entire decoded slice in memory at once, and
// feeds each command to a fresh MatcherEngine as it is decoded.
func RunStream(ctx context.Context, r io.Reader) (core.Result, error) {
	dec := gojson.NewDecoder(r)

	if _, err := dec.Token(); err != nil {
		return core.Result{}, fmt.Errorf("read opening array token: %w", err)
	}

	engine := core.NewMatcherEngine()
	for i := 0; dec.More(); i++ {
		var cmd core.RawCommand
		if err := dec.Decode(&cmd); err != nil {
			return core.Result{}, fmt.Errorf("decode command %d: %w", i, err)
		}
		if err := engine.Ingest(ctx, cmd); err != nil {
			return core.Result{}, fmt.Errorf("command %d (order_id=%q): %w", i, cmd.OrderID, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return core.Result{}, fmt.Errorf("read closing array token: %w", err)
	}
	return engine.Finish(), nil
}

// FileConfig names the three paths the file driver reads/writes.
type FileConfig struct {
	InputPath        string
	OrderbookOutPath string
	TradesOutPath    string
}

// RunFile reads FileConfig.InputPath through fs, runs the engine, and
// writes both output files through fs. No output is written if the run
// fails partway through.
func RunFile(ctx context.Context, fs afero.Fs, cfg FileConfig) (core.Result, error) {
	in, err := fs.Open(cfg.InputPath)
	if err != nil {
		return core.Result{}, fmt.Errorf("open input %q: %w", cfg.InputPath, err)
	}
	defer in.Close()

	result, err := RunStream(ctx, in)
	if err != nil {
		return core.Result{}, err
	}

	if err := writeJSON(fs, cfg.TradesOutPath, result.Trades); err != nil {
		return core.Result{}, err
	}
	if err := writeJSON(fs, cfg.OrderbookOutPath, result.OrderBooks); err != nil {
		return core.Result{}, err
	}
	return result, nil
}

func writeJSON(fs afero.Fs, path string, v any) error {
	data, err := gojson.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// PublishTrades fires off each trade in trades to sink, best-effort: a
// publish failure is logged and does not affect the caller. Intended to be
// invoked with `go driver.PublishTrades(...)` from the HTTP driver so it
// never delays the response.
func PublishTrades(ctx context.Context, sink messaging.TradeSink, trades []core.Trade) {
	if sink == nil {
		return
	}
	logger := logging.FromContext(ctx)
	for _, trade := range trades {
		if err := sink.PublishTrade(trade); err != nil {
			logger.Warn().Err(err).Str("buy_order_id", trade.BuyOrderID).Msg("failed to publish trade")
		}
	}
}
