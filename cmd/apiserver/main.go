// Command apiserver is the HTTP driver: a single POST /match endpoint that
// accepts a JSON array of order commands and returns the resulting trades
// and residual order books, with no disk I/O. Each request gets its own
// MatcherEngine.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/lattice-markets/obengine/config"
	"github.com/lattice-markets/obengine/pkg/core"
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

	srv := &server{sink: sink}

	router := mux.NewRouter()
	router.HandleFunc("/match", srv.handleMatch).Methods(http.MethodPost)
	handler := logging.HTTPMiddleware(router)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("apiserver listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("apiserver failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

type server struct {
	sink messaging.TradeSink
}

type matchResponse struct {
	Trades     []core.Trade        `json:"trades"`
	OrderBooks []core.BookSnapshot `json:"orderbooks"`
}

func (s *server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var decoded []core.RawCommand
	if err := gojson.NewDecoder(r.Body).Decode(&decoded); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := driver.RunCommands(r.Context(), decoded)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if s.sink != nil {
		go driver.PublishTrades(context.Background(), s.sink, result.Trades)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := gojson.NewEncoder(w).Encode(matchResponse{Trades: result.Trades, OrderBooks: result.OrderBooks}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
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
