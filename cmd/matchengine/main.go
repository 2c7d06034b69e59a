// Command matchengine is the file driver: it reads a JSON array of order
// commands from disk, runs them through the matching engine, and writes
// the resulting trades and residual order books back to disk.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/lattice-markets/obengine/config"
	"github.com/lattice-markets/obengine/pkg/driver"
	"github.com/lattice-markets/obengine/pkg/logging"
	"github.com/lattice-markets/obengine/pkg/messaging"
	"github.com/lattice-markets/obengine/pkg/messaging/kafka"
	"github.com/lattice-markets/obengine/pkg/messaging/sarama"
	obtel "github.com/lattice-markets/obengine/pkg/otel"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	tracing := flag.Bool("tracing", false, "export spans to stdout (overrides config if set)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *tracing {
		cfg.Tracing.Enabled = true
	}

	logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Format == "pretty",
	})

	shutdown, err := obtel.Init(obtel.Config{Enabled: cfg.Tracing.Enabled, Writer: os.Stdout})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	sink, err := newTradeSink(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize trade sink")
	}
	if sink != nil {
		defer sink.Close()
	}

	fileCfg := driver.FileConfig{
		InputPath:        cfg.Driver.InputPath,
		OrderbookOutPath: cfg.Driver.OrderbookOutPath,
		TradesOutPath:    cfg.Driver.TradesOutPath,
	}

	result, err := driver.RunFile(context.Background(), afero.NewOsFs(), fileCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	log.Info().
		Int("trades", len(result.Trades)).
		Int("books", len(result.OrderBooks)).
		Msg("run completed")

	if sink != nil {
		driver.PublishTrades(context.Background(), sink, result.Trades)
	}
}

func newTradeSink(cfg *config.Config) (messaging.TradeSink, error) {
	switch cfg.TradeSink.Kind {
	case "", "none":
		return nil, nil
	case "kafka":
		return kafka.NewTradeSink(cfg.TradeSink.BrokerAddr, cfg.TradeSink.Topic), nil
	case "sarama":
		return sarama.NewTradeSink(cfg.TradeSink.BrokerAddr, cfg.TradeSink.Topic, 8)
	default:
		log.Warn().Str("kind", cfg.TradeSink.Kind).Msg("unknown trade sink kind, disabling publishing")
		return nil, nil
	}
}
