package sarama

import (
	"fmt"

	ibmsarama "github.com/IBM/sarama"
)

// senderPool is a fixed-size, non-blocking pool of sarama synchronous
// producers, adapted from the teacher's channel-backed sender pool: a get
// with nothing available returns nil rather than blocking, and a put
// against a full pool closes the producer instead of leaking it.
type senderPool struct {
	ch chan producer
}

func newSenderPool(brokerAddr string, size int) (*senderPool, error) {
	if size <= 0 {
		size = 8
	}
	cfg := ibmsarama.NewConfig()
	cfg.Producer.Return.Successes = true

	pool := &senderPool{ch: make(chan producer, size)}
	for i := 0; i < size; i++ {
		p, err := ibmsarama.NewSyncProducer([]string{brokerAddr}, cfg)
		if err != nil {
			_ = pool.closeAll()
			return nil, fmt.Errorf("sarama: create producer %d/%d: %w", i+1, size, err)
		}
		pool.ch <- p
	}
	return pool, nil
}

func (p *senderPool) get() producer {
	select {
	case sender := <-p.ch:
		return sender
	default:
		return nil
	}
}

func (p *senderPool) put(sender producer) {
	if sender == nil {
		return
	}
	select {
	case p.ch <- sender:
	default:
		_ = sender.Close()
	}
}

func (p *senderPool) closeAll() error {
	close(p.ch)
	var firstErr error
	for sender := range p.ch {
		if err := sender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
