package domain

import "time"

// Trade is one executed order. Created by the trade executor on every
// non-zero execution; append-only, never mutated after creation.
type Trade struct {
	Date              time.Time
	Action            Action
	RequestedQuantity int
	ExecutedQuantity  int
	ExecutionPrice    float64
	Commission        float64
	// Slippage is the signed difference between the execution price
	// and the reference market price.
	Slippage float64
}

// CashFlow returns the signed cash flow of the trade: negative for buys,
// positive for sells, net of commission.
func (t *Trade) CashFlow() float64 {
	switch t.Action {
	case ActionBuy:
		return -float64(t.ExecutedQuantity)*t.ExecutionPrice - t.Commission
	case ActionSell:
		return float64(t.ExecutedQuantity)*t.ExecutionPrice - t.Commission
	default:
		return 0
	}
}
