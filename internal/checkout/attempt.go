package checkout

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
)

// State is a step of one submission attempt.
type State string

const (
	StateIdle           State = "idle"
	StateChecking       State = "checking"
	StateBlocked        State = "blocked"
	StateNeedsOverride  State = "needs_override"
	StateReadyToConfirm State = "ready_to_confirm"
	StateSubmitting     State = "submitting"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
	StateCancelled      State = "cancelled"
)

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	switch s {
	case StateBlocked, StateSucceeded, StateFailed, StateCancelled:
		return true
	}
	return false
}

const (
	eventCheck       = "check"
	eventAllow       = "allow"
	eventBlock       = "block"
	eventAskOverride = "ask_override"
	eventOverride    = "override"
	eventCancel      = "cancel"
	eventConfirm     = "confirm"
	eventSucceed     = "succeed"
	eventFail        = "fail"
)

// attempt is the state machine of a single submission. A new one is built
// for every Submit, so nothing carries over between attempts.
type attempt struct {
	fsm *fsm.FSM
	log *slog.Logger
}

func newAttempt(log *slog.Logger) *attempt {
	a := &attempt{log: log}
	a.fsm = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventCheck, Src: []string{string(StateIdle)}, Dst: string(StateChecking)},
			{Name: eventAllow, Src: []string{string(StateChecking)}, Dst: string(StateReadyToConfirm)},
			{Name: eventBlock, Src: []string{string(StateChecking)}, Dst: string(StateBlocked)},
			{Name: eventAskOverride, Src: []string{string(StateChecking)}, Dst: string(StateNeedsOverride)},
			{Name: eventOverride, Src: []string{string(StateNeedsOverride)}, Dst: string(StateReadyToConfirm)},
			{Name: eventCancel, Src: []string{string(StateNeedsOverride), string(StateReadyToConfirm)}, Dst: string(StateCancelled)},
			{Name: eventConfirm, Src: []string{string(StateReadyToConfirm)}, Dst: string(StateSubmitting)},
			{Name: eventSucceed, Src: []string{string(StateSubmitting)}, Dst: string(StateSucceeded)},
			{Name: eventFail, Src: []string{string(StateChecking), string(StateSubmitting)}, Dst: string(StateFailed)},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				a.log.DebugContext(ctx, "departure attempt transition",
					"event", e.Event,
					"from", e.Src,
					"to", e.Dst,
				)
			},
		},
	)
	return a
}

// fire moves the attempt along event. The transition table is fixed and
// every call site fires from a state that allows it, so an error here is a
// bug; it is logged and the state is left unchanged.
func (a *attempt) fire(ctx context.Context, event string) {
	// The FSM must advance even when the caller's context is already done,
	// e.g. to record a failure caused by that very cancellation.
	if err := a.fsm.Event(context.WithoutCancel(ctx), event); err != nil {
		a.log.ErrorContext(ctx, "invalid departure attempt transition",
			"event", event,
			"state", a.fsm.Current(),
			"error", err,
		)
	}
}

func (a *attempt) state() State {
	return State(a.fsm.Current())
}
