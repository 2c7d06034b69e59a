// Package config loads the driver configuration: input/output paths, log
// level/format, and trade-sink selection. Nothing here affects the core
// matching engine's semantics.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config is the fully resolved driver configuration.
type Config struct {
	Driver struct {
		InputPath        string `mapstructure:"input_path"`
		OrderbookOutPath string `mapstructure:"orderbook_out_path"`
		TradesOutPath    string `mapstructure:"trades_out_path"`
	} `mapstructure:"driver"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	// TradeSink selects an optional publisher for executed trades: "none"
	// (default), "kafka", or "sarama".
	TradeSink struct {
		Kind       string `mapstructure:"kind"`
		BrokerAddr string `mapstructure:"broker_addr"`
		Topic      string `mapstructure:"topic"`
	} `mapstructure:"trade_sink"`

	// Tracing controls whether MatcherEngine.Ingest and OrderBook.Process
	// spans are exported (to stdout). Disabled by default: span export adds
	// overhead that matters on the hot command-processing path.
	Tracing struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"tracing"`
}

// Load reads configuration from defaults, an optional YAML file at
// configPath (ignored if empty or missing), and environment variables
// (OBENGINE_DRIVER_INPUT_PATH etc.), in ascending precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("driver.input_path", "orders.json")
	v.SetDefault("driver.orderbook_out_path", "orderbook.json")
	v.SetDefault("driver.trades_out_path", "trades.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "pretty")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("trade_sink.kind", "none")
	v.SetDefault("trade_sink.broker_addr", "localhost:9092")
	v.SetDefault("trade_sink.topic", "trades")
	v.SetDefault("tracing.enabled", false)

	v.SetEnvPrefix("obengine")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			_, notFound := err.(viper.ConfigFileNotFoundError)
			if !notFound && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config file %q: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
