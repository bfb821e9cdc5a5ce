package types

// GuardState is a step of the network guard state machine.
type GuardState string

const (
	// StateChecking is the initial state, the current chain is compared to the allow-list.
	StateChecking GuardState = "CHECKING"
	// StateSwitching asks the wallet to switch to the target chain.
	StateSwitching GuardState = "SWITCHING"
	// StateAddingChain registers the target chain after the wallet reported it as unknown.
	StateAddingChain GuardState = "ADDING_CHAIN"
	// StateSwitchingAgain retries the switch once the chain has been added.
	StateSwitchingAgain GuardState = "SWITCHING_AGAIN"
	// StateDone is the terminal success state.
	StateDone GuardState = "DONE"
	// StateFailed is the terminal failure state.
	StateFailed GuardState = "FAILED"
)

// IsTerminal reports whether no further transitions follow the state.
func (s GuardState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// OutcomeKind tags a SwitchOutcome.
type OutcomeKind string

const (
	// Switched means the wallet is on an allowed chain, either already or after a switch.
	Switched OutcomeKind = "SWITCHED"
	// AddedThenSwitched means the target chain had to be registered before the switch succeeded.
	AddedThenSwitched OutcomeKind = "ADDED_THEN_SWITCHED"
	// Failed means the wallet could not be moved to an allowed chain.
	Failed OutcomeKind = "FAILED"
)

// FailureReason explains a Failed outcome.
type FailureReason string

const (
	// ReasonNone is used for successful outcomes.
	ReasonNone FailureReason = ""
	// ReasonNoProvider means no injected chain-capable provider is available.
	ReasonNoProvider FailureReason = "no-provider"
	// ReasonRejected means the user declined a wallet prompt.
	ReasonRejected FailureReason = "rejected"
	// ReasonUnknown covers every other provider failure.
	ReasonUnknown FailureReason = "unknown"
)

// SwitchOutcome is the result of a network guard run.
//
// Fields:
// - Kind: the outcome tag.
// - Reason: the failure reason, empty unless Kind is Failed.
// - Err: the raw provider error kept for logging, nil on success.
type SwitchOutcome struct {
	Kind   OutcomeKind
	Reason FailureReason
	Err    error
}

// SwitchedOutcome returns a Switched outcome.
func SwitchedOutcome() SwitchOutcome {
	return SwitchOutcome{Kind: Switched}
}

// AddedThenSwitchedOutcome returns an AddedThenSwitched outcome.
func AddedThenSwitchedOutcome() SwitchOutcome {
	return SwitchOutcome{Kind: AddedThenSwitched}
}

// FailedOutcome returns a Failed outcome with the given reason and cause.
func FailedOutcome(reason FailureReason, err error) SwitchOutcome {
	return SwitchOutcome{Kind: Failed, Reason: reason, Err: err}
}

// Succeeded reports whether the wallet ended up on an allowed chain.
func (o SwitchOutcome) Succeeded() bool {
	return o.Kind == Switched || o.Kind == AddedThenSwitched
}

func (o SwitchOutcome) String() string {
	if o.Kind == Failed {
		return string(o.Kind) + "(" + string(o.Reason) + ")"
	}
	return string(o.Kind)
}
