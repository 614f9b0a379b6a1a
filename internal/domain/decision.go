package domain

// Action represents a trade action.
type Action string

// Action constants.
const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// ExecutionMode records how a decision was produced.
type ExecutionMode string

// Execution mode constants.
const (
	// ModeFull means the opaque external strategy was invoked.
	ModeFull ExecutionMode = "full"
	// ModeSimplified means the local simplified procedure ran.
	ModeSimplified ExecutionMode = "simplified"
	// ModeCached means a previously computed decision was returned.
	ModeCached ExecutionMode = "cached"
	// ModeDegraded means the strategy failed and a safe hold was substituted.
	ModeDegraded ExecutionMode = "degraded"
)

// AnalystSignal is one analyst's view attached to a decision.
type AnalystSignal struct {
	Signal     string
	Confidence float64
}

// Decision is the canonical decision record produced by the decision
// engine and consumed by the trade executor. Immutable once produced.
type Decision struct {
	Action         Action
	Quantity       int
	AnalystSignals map[string]AnalystSignal
	ExecutionMode  ExecutionMode
}

// Hold returns a safe hold decision in the given mode.
func Hold(mode ExecutionMode) *Decision {
	return &Decision{
		Action:        ActionHold,
		Quantity:      0,
		ExecutionMode: mode,
	}
}
