package decision

import (
	"testing"
	"time"

	"agent-backtest-lab/internal/domain"
)

// barsFromCloses builds daily bars with the given closes and a flat
// volume profile.
func barsFromCloses(closes ...float64) []domain.Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{Date: start.AddDate(0, 0, i), Close: c, Volume: 1000}
	}
	return bars
}

// risingBars returns n bars climbing 1% per day.
func risingBars(n int) []domain.Bar {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price *= 1.01
	}
	return barsFromCloses(closes...)
}

// fallingBars returns n bars dropping 1% per day.
func fallingBars(n int) []domain.Bar {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		closes[i] = price
		price *= 0.99
	}
	return barsFromCloses(closes...)
}

func TestSimplified_Rule1_NoPositionOneBullishBuysFullClip(t *testing.T) {
	d := simplifiedDecision([]string{"technical"}, risingBars(30), domain.Portfolio{Cash: 100000})

	if d.Action != domain.ActionBuy || d.Quantity != 100 {
		t.Errorf("got %s %d, want buy 100", d.Action, d.Quantity)
	}
	if d.AnalystSignals["technical"].Signal != "bullish" {
		t.Errorf("technical signal = %q, want bullish", d.AnalystSignals["technical"].Signal)
	}
}

func TestSimplified_Rule2_NoPositionTwoNeutralsBuysHalfClip(t *testing.T) {
	// fundamentals and macro have no local procedure and read neutral.
	d := simplifiedDecision([]string{"fundamentals", "macro"}, risingBars(30), domain.Portfolio{Cash: 100000})

	if d.Action != domain.ActionBuy || d.Quantity != 50 {
		t.Errorf("got %s %d, want buy 50", d.Action, d.Quantity)
	}
}

func TestSimplified_Rule3_PositionTwoBearishSellsUpTo100(t *testing.T) {
	history := fallingBars(30)

	d := simplifiedDecision([]string{"sentiment", "technical"}, history, domain.Portfolio{Position: 250})
	if d.Action != domain.ActionSell || d.Quantity != 100 {
		t.Errorf("got %s %d, want sell 100", d.Action, d.Quantity)
	}

	// Clamped to the open position when smaller than the clip.
	d = simplifiedDecision([]string{"sentiment", "technical"}, history, domain.Portfolio{Position: 60})
	if d.Action != domain.ActionSell || d.Quantity != 60 {
		t.Errorf("got %s %d, want sell 60", d.Action, d.Quantity)
	}
}

func TestSimplified_Rule4_PositionTwoBullishAddsFullClip(t *testing.T) {
	d := simplifiedDecision([]string{"sentiment", "technical"}, risingBars(30), domain.Portfolio{Position: 200})

	if d.Action != domain.ActionBuy || d.Quantity != 100 {
		t.Errorf("got %s %d, want buy 100", d.Action, d.Quantity)
	}
}

func TestSimplified_Rule5_BearishMajoritySellsHalfClip(t *testing.T) {
	// One bearish signal, no bullish: rule 3 (needs 2 bearish) and rule 4
	// do not fire, rule 5 does.
	d := simplifiedDecision([]string{"technical"}, fallingBars(30), domain.Portfolio{Position: 200})

	if d.Action != domain.ActionSell || d.Quantity != 50 {
		t.Errorf("got %s %d, want sell 50", d.Action, d.Quantity)
	}
}

func TestSimplified_Rule6_DefaultHold(t *testing.T) {
	// Flat series: technical neutral (close equals MA), so with an open
	// position and no bearish/bullish majority the decision is hold.
	flat := barsFromCloses(100, 100, 100, 100, 100, 100, 100, 100, 100, 100)

	d := simplifiedDecision([]string{"technical"}, flat, domain.Portfolio{Position: 100})
	if d.Action != domain.ActionHold || d.Quantity != 0 {
		t.Errorf("got %s %d, want hold 0", d.Action, d.Quantity)
	}
}

func TestTechnicalSignal_ShortHistoryFallsBackToFiveDayMA(t *testing.T) {
	// 6 bars, rising: 5-day MA below current close.
	if got := technicalSignal(risingBars(6)); got != "bullish" {
		t.Errorf("technical = %q, want bullish", got)
	}
	// Under 5 bars there is nothing to average.
	if got := technicalSignal(risingBars(4)); got != "neutral" {
		t.Errorf("technical = %q, want neutral with 4 bars", got)
	}
}

func TestSentimentSignal_ComparesFiveDaysBack(t *testing.T) {
	if got := sentimentSignal(risingBars(10)); got != "positive" {
		t.Errorf("sentiment = %q, want positive", got)
	}
	if got := sentimentSignal(fallingBars(10)); got != "negative" {
		t.Errorf("sentiment = %q, want negative", got)
	}
	if got := sentimentSignal(risingBars(5)); got != "neutral" {
		t.Errorf("sentiment = %q, want neutral with short history", got)
	}
}

func TestVolumeSignal_ActiveOnVolumeSurge(t *testing.T) {
	bars := risingBars(12)
	if got := volumeSignal(bars); got != "normal" {
		t.Fatalf("volume = %q, want normal on flat volume", got)
	}

	// Triple the volume of the last three days.
	for i := len(bars) - 3; i < len(bars); i++ {
		bars[i].Volume = 3000
	}
	if got := volumeSignal(bars); got != "active" {
		t.Errorf("volume = %q, want active after surge", got)
	}
}
