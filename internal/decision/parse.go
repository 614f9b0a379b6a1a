package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"agent-backtest-lab/internal/domain"
)

// Parse errors.
var (
	ErrUnparsableOutput = errors.New("strategy output is not a parsable decision")
	ErrInvalidAction    = errors.New("strategy output has invalid action")
	ErrNegativeQuantity = errors.New("strategy output has negative quantity")
)

// response mirrors the decision-bearing record an external strategy
// emits: at minimum action and quantity, optionally agent signals.
type response struct {
	Action       string        `json:"action"`
	Quantity     int           `json:"quantity"`
	AgentSignals []agentSignal `json:"agent_signals"`
}

type agentSignal struct {
	Agent      string  `json:"agent"`
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
}

// parseDecision normalizes strategy output into a canonical decision.
// The output may be a bare JSON object or free text with an embedded
// JSON object; anything else is a parse failure.
func parseDecision(text string) (*domain.Decision, error) {
	var resp response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		embedded, ok := extractObject(text)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnparsableOutput, truncate(text, 120))
		}
		if err := json.Unmarshal([]byte(embedded), &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparsableOutput, err)
		}
	}

	action := domain.Action(strings.ToLower(strings.TrimSpace(resp.Action)))
	switch action {
	case domain.ActionBuy, domain.ActionSell, domain.ActionHold:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, resp.Action)
	}
	if resp.Quantity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeQuantity, resp.Quantity)
	}

	d := &domain.Decision{
		Action:        action,
		Quantity:      resp.Quantity,
		ExecutionMode: domain.ModeFull,
	}
	if len(resp.AgentSignals) > 0 {
		d.AnalystSignals = make(map[string]domain.AnalystSignal, len(resp.AgentSignals))
		for _, s := range resp.AgentSignals {
			d.AnalystSignals[s.Agent] = domain.AnalystSignal{
				Signal:     strings.ToLower(s.Signal),
				Confidence: s.Confidence,
			}
		}
	}
	return d, nil
}

// extractObject returns the substring spanning the first '{' to the
// last '}', for strategies that wrap JSON in prose.
func extractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
