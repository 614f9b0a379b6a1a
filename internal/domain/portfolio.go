package domain

import "time"

// Portfolio is the cash/position ledger for one backtest run. It is the
// only mutable shared object in the simulation loop and is mutated
// exclusively by the trade executor.
type Portfolio struct {
	Cash     float64
	Position int
}

// TotalValue returns cash plus position marked at the given price.
func (p *Portfolio) TotalValue(price float64) float64 {
	return p.Cash + float64(p.Position)*price
}

// ValuePoint is one day of the portfolio value trajectory. One point is
// appended per simulated day, including days with missing market data
// (value carried forward, return 0).
type ValuePoint struct {
	Date           time.Time
	PortfolioValue float64
	DailyReturn    float64
}
