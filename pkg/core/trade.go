package core

// Trade is one execution produced by OrderBook.match. Price is always the
// maker (resting) order's price; Ts is a wall-clock millisecond timestamp,
// independent of the engine's arrival-sequence ts on BookOrder.
type Trade struct {
	Pair        string `json:"pair"`
	BuyOrderID  string `json:"buyOrderId"`
	SellOrderID string `json:"sellOrderId"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	Ts          int64  `json:"ts"`
}
