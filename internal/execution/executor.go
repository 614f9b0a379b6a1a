// Package execution converts canonical decisions into executed trades,
// applying commission and slippage while enforcing cash and position
// constraints.
package execution

import (
	"math"
	"time"

	"agent-backtest-lab/internal/domain"
)

// Executor owns the trade log for one run and is the only component
// that mutates the portfolio ledger. Infeasible requests are clamped to
// the maximum feasible quantity, never treated as errors.
type Executor struct {
	commissionRate float64
	slippageRate   float64
	trades         []domain.Trade
}

// NewExecutor creates an executor with the given cost model.
func NewExecutor(commissionRate, slippageRate float64) *Executor {
	return &Executor{
		commissionRate: commissionRate,
		slippageRate:   slippageRate,
	}
}

// Execute applies a decision at the given market price and returns the
// executed quantity. A zero execution leaves the ledger and the trade
// log untouched.
func (e *Executor) Execute(action domain.Action, requested int, price float64, date time.Time, p *domain.Portfolio) int {
	if requested <= 0 || price <= 0 {
		return 0
	}

	switch action {
	case domain.ActionBuy:
		return e.buy(requested, price, date, p)
	case domain.ActionSell:
		return e.sell(requested, price, date, p)
	default:
		return 0
	}
}

// buy fills at price adjusted up by slippage. Requests beyond available
// cash execute the maximum affordable whole-unit quantity.
func (e *Executor) buy(requested int, price float64, date time.Time, p *domain.Portfolio) int {
	execPrice := price * (1 + e.slippageRate)
	unitCost := execPrice * (1 + e.commissionRate)

	executed := requested
	if float64(requested)*unitCost > p.Cash {
		executed = int(math.Floor(p.Cash / unitCost))
	}
	if executed <= 0 {
		return 0
	}

	cost := float64(executed) * unitCost
	commission := float64(executed) * execPrice * e.commissionRate

	p.Cash -= cost
	p.Position += executed

	e.trades = append(e.trades, domain.Trade{
		Date:              date,
		Action:            domain.ActionBuy,
		RequestedQuantity: requested,
		ExecutedQuantity:  executed,
		ExecutionPrice:    execPrice,
		Commission:        commission,
		Slippage:          execPrice - price,
	})
	return executed
}

// sell fills at price adjusted down by slippage, clamped to the open
// position.
func (e *Executor) sell(requested int, price float64, date time.Time, p *domain.Portfolio) int {
	executed := requested
	if executed > p.Position {
		executed = p.Position
	}
	if executed <= 0 {
		return 0
	}

	execPrice := price * (1 - e.slippageRate)
	proceeds := float64(executed) * execPrice * (1 - e.commissionRate)
	commission := float64(executed) * execPrice * e.commissionRate

	p.Cash += proceeds
	p.Position -= executed

	e.trades = append(e.trades, domain.Trade{
		Date:              date,
		Action:            domain.ActionSell,
		RequestedQuantity: requested,
		ExecutedQuantity:  executed,
		ExecutionPrice:    execPrice,
		Commission:        commission,
		Slippage:          execPrice - price,
	})
	return executed
}

// Trades returns the append-only trade log as a fresh slice.
func (e *Executor) Trades() []domain.Trade {
	out := make([]domain.Trade, len(e.trades))
	copy(out, e.trades)
	return out
}
