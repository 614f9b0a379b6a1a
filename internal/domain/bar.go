package domain

import "time"

// Bar is one daily OHLCV observation for a ticker.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// LastClose returns the close of the final bar, or 0 for an empty slice.
func LastClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}
