package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// machine is a mutex-guarded in-memory StateMachine.
// Transitions are indexed as [from][event] for constant-time lookup.
type machine struct {
	mu          sync.Mutex
	initial     State
	current     State
	transitions map[string]map[string][]Transition
	hooks       []Hook
}

func newMachine(initial State) *machine {
	return &machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}
}

func (m *machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *machine) addTransition(t Transition) error {
	if t.From == nil || t.To == nil || t.Event == nil {
		return ErrInvalidTransition
	}
	byEvent, ok := m.transitions[t.From.Name()]
	if !ok {
		byEvent = make(map[string][]Transition)
		m.transitions[t.From.Name()] = byEvent
	}
	// several transitions per from/event pair allow guard-based branching
	byEvent[t.Event.Name()] = append(byEvent[t.Event.Name()], t)
	return nil
}

// find returns the first transition whose guards pass. Caller holds mu.
func (m *machine) find(ctx context.Context, event Event, data any) (*Transition, error) {
	candidates := m.transitions[m.current.Name()][event.Name()]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: m.current.Name(), Event: event.Name()}
	}
	for i := range candidates {
		if guardsPass(ctx, candidates[i].Guards, m.current, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &RejectedError{State: m.current.Name(), Event: event.Name()}
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	t, err := m.find(ctx, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("%s -> %s: %w", from.Name(), t.To.Name(), err)
		}
	}
	m.current = t.To
	hooks := m.hooks
	m.mu.Unlock()

	for _, h := range hooks {
		h(ctx, from, t.To, event)
	}
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.find(ctx, event, data)
	return err == nil
}

func (m *machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func guardsPass(ctx context.Context, guards []Guard, from State, event Event, data any) bool {
	for _, g := range guards {
		if !g(ctx, from, event, data) {
			return false
		}
	}
	return true
}
