package core

import "errors"

// Sentinel errors returned by OrderBook and MatcherEngine. Each is
// returned wrapped with additional context via fmt.Errorf("%w", ...);
// callers should compare with errors.Is.
var (
	// ErrMalformedCommand is returned when a RawCommand has a missing or
	// invalid op/side, or an empty required field.
	ErrMalformedCommand = errors.New("core: malformed command")

	// ErrDuplicateOrderID is returned when a CREATE names an order_id that
	// is already resting on the book.
	ErrDuplicateOrderID = errors.New("core: duplicate order id")
)
