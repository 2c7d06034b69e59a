// Package messaging decouples core from any specific trade-event transport.
package messaging

import "github.com/lattice-markets/obengine/pkg/core"

// TradeSink publishes executed trades to an external collaborator (a
// queue, a fan-out service) once a run has produced them. Publishing is
// best-effort from the driver's point of view: a TradeSink error is
// logged, never allowed to fail the run that produced the trade.
type TradeSink interface {
	PublishTrade(trade core.Trade) error
	Close() error
}
