package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"agent-backtest-lab/internal/domain"
)

// Alpaca fetches daily OHLCV bars from the Alpaca market-data API.
type Alpaca struct {
	client *marketdata.Client
}

// AlpacaOptions holds Alpaca credentials and endpoint.
type AlpacaOptions struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// NewAlpaca creates an Alpaca-backed provider.
func NewAlpaca(opts AlpacaOptions) *Alpaca {
	clientOpts := marketdata.ClientOpts{
		APIKey:    opts.APIKey,
		APISecret: opts.APISecret,
	}
	if opts.BaseURL != "" {
		clientOpts.BaseURL = opts.BaseURL
	}
	return &Alpaca{client: marketdata.NewClient(clientOpts)}
}

// Bars fetches daily bars for [start, end].
func (p *Alpaca) Bars(_ context.Context, ticker string, start, end time.Time) ([]domain.Bar, error) {
	raw, err := p.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      start,
		End:        end,
		Adjustment: marketdata.Split,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars %s: %w", ticker, err)
	}

	bars := make([]domain.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, domain.Bar{
			Date:   b.Timestamp.UTC().Truncate(24 * time.Hour),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}
	return bars, nil
}

var _ PriceHistoryProvider = (*Alpaca)(nil)
