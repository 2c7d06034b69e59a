// Package kafka implements messaging.TradeSink on top of segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lattice-markets/obengine/pkg/core"
	"github.com/lattice-markets/obengine/pkg/messaging"
)

// TradeSink publishes core.Trade values to a Kafka topic, keyed by the
// buy order id so trades of the same buy order land on the same
// partition.
type TradeSink struct {
	writer *kafkago.Writer
}

// NewTradeSink dials no connection eagerly; kafka-go's writer connects
// lazily on first write.
func NewTradeSink(brokerAddr, topic string) *TradeSink {
	return &TradeSink{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokerAddr),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// PublishTrade marshals trade as JSON and writes it to the configured topic.
func (s *TradeSink) PublishTrade(trade core.Trade) error {
	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("marshal trade: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := kafkago.Message{
		Key:   []byte(trade.BuyOrderID),
		Value: data,
		Time:  time.Now(),
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write trade to kafka: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (s *TradeSink) Close() error {
	return s.writer.Close()
}

var _ messaging.TradeSink = (*TradeSink)(nil)
