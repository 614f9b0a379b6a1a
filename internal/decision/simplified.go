package decision

import (
	"agent-backtest-lab/internal/domain"
)

// Signal vocabulary of the simplified procedure. Bullish-like signals
// are bullish/positive/active; bearish-like are bearish/negative.
const (
	signalBullish = "bullish"
	signalBearish = "bearish"
	signalNeutral = "neutral"

	signalPositive = "positive"
	signalNegative = "negative"

	signalActive = "active"
	signalNormal = "normal"
)

// Moving-average and volume window lengths.
const (
	technicalLongWindow  = 20
	technicalShortWindow = 5
	sentimentLagDays     = 5
	volumeShortWindow    = 3
	volumeLongWindow     = 10
	volumeActiveRatio    = 1.2
)

// Simplified order sizes. The rule ordering and thresholds below
// determine reproducibility of backtest results; do not reorder.
const (
	fullClipSize = 100
	halfClipSize = 50
)

// simplifiedDecision derives a decision from locally available
// price/volume history only, with no external calls. Each due analyst
// contributes one signal; analysts without a local procedure read
// neutral.
func simplifiedDecision(due []string, history []domain.Bar, portfolio domain.Portfolio) *domain.Decision {
	signals := make(map[string]domain.AnalystSignal, len(due))
	for _, analyst := range due {
		var sig string
		switch analyst {
		case domain.AnalystTechnical:
			sig = technicalSignal(history)
		case domain.AnalystSentiment:
			sig = sentimentSignal(history)
		case domain.AnalystMarketData:
			sig = volumeSignal(history)
		default:
			sig = signalNeutral
		}
		signals[analyst] = domain.AnalystSignal{Signal: sig, Confidence: 0.5}
	}

	bullish, bearish, neutral := countSignals(signals)
	action, quantity := applyDecisionPolicy(portfolio.Position, bullish, bearish, neutral)

	return &domain.Decision{
		Action:         action,
		Quantity:       quantity,
		AnalystSignals: signals,
		ExecutionMode:  domain.ModeSimplified,
	}
}

// applyDecisionPolicy resolves signal counts into an order. Rules are
// applied strictly in order.
func applyDecisionPolicy(position, bullish, bearish, neutral int) (domain.Action, int) {
	switch {
	case position == 0 && bullish >= 1:
		return domain.ActionBuy, fullClipSize
	case position == 0 && bearish == 0 && neutral >= 2:
		return domain.ActionBuy, halfClipSize
	case position > 0 && bearish >= 2:
		return domain.ActionSell, minInt(fullClipSize, position)
	case position > 0 && bullish >= 2:
		return domain.ActionBuy, fullClipSize
	case position > 0 && bearish > bullish && bearish >= 1:
		return domain.ActionSell, minInt(halfClipSize, position)
	default:
		return domain.ActionHold, 0
	}
}

func countSignals(signals map[string]domain.AnalystSignal) (bullish, bearish, neutral int) {
	for _, s := range signals {
		switch s.Signal {
		case signalBullish, signalPositive, signalActive:
			bullish++
		case signalBearish, signalNegative:
			bearish++
		case signalNeutral, signalNormal:
			neutral++
		}
	}
	return bullish, bearish, neutral
}

// technicalSignal compares the current close to its trailing moving
// average: 20-day, or 5-day when history is short.
func technicalSignal(history []domain.Bar) string {
	window := technicalLongWindow
	if len(history) < technicalLongWindow {
		window = technicalShortWindow
	}
	if len(history) < window {
		return signalNeutral
	}

	ma := 0.0
	for _, b := range history[len(history)-window:] {
		ma += b.Close
	}
	ma /= float64(window)

	current := history[len(history)-1].Close
	switch {
	case current > ma:
		return signalBullish
	case current < ma:
		return signalBearish
	default:
		return signalNeutral
	}
}

// sentimentSignal compares the current close to its value five trading
// days prior.
func sentimentSignal(history []domain.Bar) string {
	if len(history) < sentimentLagDays+1 {
		return signalNeutral
	}

	current := history[len(history)-1].Close
	prior := history[len(history)-1-sentimentLagDays].Close
	switch {
	case current > prior:
		return signalPositive
	case current < prior:
		return signalNegative
	default:
		return signalNeutral
	}
}

// volumeSignal compares the 3-day average traded volume to the 10-day
// average.
func volumeSignal(history []domain.Bar) string {
	if len(history) < volumeLongWindow {
		return signalNormal
	}

	short := avgVolume(history[len(history)-volumeShortWindow:])
	long := avgVolume(history[len(history)-volumeLongWindow:])
	if long > 0 && short > volumeActiveRatio*long {
		return signalActive
	}
	return signalNormal
}

func avgVolume(bars []domain.Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += float64(b.Volume)
	}
	return sum / float64(len(bars))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
