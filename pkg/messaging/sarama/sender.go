// Package sarama implements messaging.TradeSink on top of IBM/sarama's
// synchronous producer, pooled for higher throughput than a single
// producer connection. Kept as an alternative to the kafka-go sink since
// the two libraries have different latency/throughput tradeoffs under
// load and the config layer lets an operator pick either.
package sarama

import (
	"encoding/json"
	"fmt"

	ibmsarama "github.com/IBM/sarama"

	"github.com/lattice-markets/obengine/pkg/core"
	"github.com/lattice-markets/obengine/pkg/messaging"
)

// producer is the subset of sarama.SyncProducer this package uses,
// narrowed for testability.
type producer interface {
	SendMessage(msg *ibmsarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

// TradeSink publishes core.Trade values to a Kafka topic via a pool of
// sarama synchronous producers.
type TradeSink struct {
	topic string
	pool  *senderPool
}

// NewTradeSink dials poolSize sarama producers against brokerAddr ahead of
// time, so PublishTrade never pays connection-setup latency on the hot
// path.
func NewTradeSink(brokerAddr, topic string, poolSize int) (*TradeSink, error) {
	pool, err := newSenderPool(brokerAddr, poolSize)
	if err != nil {
		return nil, err
	}
	return &TradeSink{topic: topic, pool: pool}, nil
}

// PublishTrade marshals trade as JSON and sends it through a pooled
// producer, returning it to the pool on success. On a send failure the
// producer is closed and dropped; the pool does not replace it, so it
// holds one producer fewer afterwards.
func (s *TradeSink) PublishTrade(trade core.Trade) error {
	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("marshal trade: %w", err)
	}

	p := s.pool.get()
	if p == nil {
		return fmt.Errorf("sarama: sender pool exhausted")
	}

	msg := &ibmsarama.ProducerMessage{
		Topic: s.topic,
		Key:   ibmsarama.StringEncoder(trade.BuyOrderID),
		Value: ibmsarama.ByteEncoder(data),
	}
	if _, _, err := p.SendMessage(msg); err != nil {
		_ = p.Close()
		return fmt.Errorf("send trade to kafka: %w", err)
	}
	s.pool.put(p)
	return nil
}

// Close shuts down every pooled producer.
func (s *TradeSink) Close() error {
	return s.pool.closeAll()
}

var _ messaging.TradeSink = (*TradeSink)(nil)
