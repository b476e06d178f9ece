package types

// AttemptState is the position of one bridge attempt in the orchestrator state machine.
type AttemptState string

const (
	// StateIdle is the initial state; a new attempt may be submitted.
	StateIdle AttemptState = "IDLE"
	// StateBuilding is the state while the transfer request is assembled and validated.
	StateBuilding AttemptState = "BUILDING"
	// StateAwaitingBridge is the state while the bridge service call is in flight.
	StateAwaitingBridge AttemptState = "AWAITING_BRIDGE"
	// StateClassifying is the state while the bridge reply is inspected.
	StateClassifying AttemptState = "CLASSIFYING"
	// StatePlainReady indicates the bridge returned a ready transaction descriptor.
	StatePlainReady AttemptState = "PLAIN_READY"
	// StateSettlingOta indicates the wallet payment to a one-time address is in progress.
	StateSettlingOta AttemptState = "SETTLING_OTA"
	// StateDone is the terminal success state.
	StateDone AttemptState = "DONE"
	// StateFailed is the terminal failure state.
	StateFailed AttemptState = "FAILED"
)

// String converts AttemptState to string representation.
func (s AttemptState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition can leave the state.
func (s AttemptState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
