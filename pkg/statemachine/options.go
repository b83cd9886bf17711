package statemachine

import "fmt"

// Option configures a state machine during construction.
type Option func(*machine) error

// TransitionOption configures guards and actions of a single transition.
type TransitionOption func(*Transition)

// New creates a state machine in the initial state.
func New(initial State, opts ...Option) (StateMachine, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: initial state is nil", ErrInvalidTransition)
	}
	m := newMachine(initial)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a bad definition.
func MustNew(initial State, opts ...Option) StateMachine {
	sm, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return sm
}

// WithTransition adds a transition from -> to on event.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *machine) error {
		t := Transition{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		return m.addTransition(t)
	}
}

// WithTransitionFrom adds the same transition from each of the given states,
// e.g. an abort edge reachable from every non-terminal state.
func WithTransitionFrom(froms []State, to State, event Event, opts ...TransitionOption) Option {
	return func(m *machine) error {
		for _, from := range froms {
			if err := WithTransition(from, to, event, opts...)(m); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithHook registers a callback invoked after every successful transition.
func WithHook(h Hook) Option {
	return func(m *machine) error {
		if h != nil {
			m.hooks = append(m.hooks, h)
		}
		return nil
	}
}

func WithGuard(g Guard) TransitionOption {
	return func(t *Transition) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

func WithAction(a Action) TransitionOption {
	return func(t *Transition) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}
