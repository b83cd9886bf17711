// Package statemachine implements a small guarded finite state machine used
// to drive multi-step flows such as account registration.
//
// Transitions are declared up front with New and WithTransition. Fire looks
// up the transition for the current state and event, runs its guards and
// actions, and only then moves to the target state: a failing action leaves
// the machine where it was so the caller can fire a compensating event.
package statemachine

import "context"

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Action executes side effects during a transition. Returning an error prevents the transition.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard reports whether a transition may proceed.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Hook observes completed transitions.
type Hook func(ctx context.Context, from, to State, event Event)

// Transition defines a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard  // all must pass
	Actions []Action // run in order before the state changes
}

// StateMachine defines the finite state machine operations.
type StateMachine interface {
	Current() State
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Reset()
}

// StringState is a string-based State.
type StringState string

func (s StringState) Name() string { return string(s) }

// StringEvent is a string-based Event.
type StringEvent string

func (e StringEvent) Name() string { return string(e) }
