package messaging

import "github.com/lattice-markets/obengine/pkg/core"

// MockTradeSink is an in-memory TradeSink for tests: it publishes nowhere
// and records every trade it is given.
type MockTradeSink struct {
	Published []core.Trade
}

// NewMockTradeSink returns a MockTradeSink that records every published
// trade for test assertions.
func NewMockTradeSink() *MockTradeSink {
	return &MockTradeSink{}
}

// PublishTrade records trade and never fails.
func (m *MockTradeSink) PublishTrade(trade core.Trade) error {
	m.Published = append(m.Published, trade)
	return nil
}

// Close does nothing.
func (m *MockTradeSink) Close() error {
	return nil
}

var _ TradeSink = (*MockTradeSink)(nil)
