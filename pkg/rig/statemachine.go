package rig

import "sync"

// StateMachine is an in-memory Animator: named boolean parameters, one current
// state name per layer, and a bound skeleton.
type StateMachine struct {
	mu       sync.RWMutex
	params   map[string]bool
	states   []string
	skeleton Skeleton
}

// NewStateMachine creates a state machine with the given number of layers
// (at least one) bound to skeleton, which may be nil.
func NewStateMachine(layers int, skeleton Skeleton) *StateMachine {
	if layers < 1 {
		layers = 1
	}
	return &StateMachine{
		params:   make(map[string]bool),
		states:   make([]string, layers),
		skeleton: skeleton,
	}
}

// Bool returns a parameter value; unknown parameters are false.
func (s *StateMachine) Bool(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params[name]
}

// SetBool sets a parameter.
func (s *StateMachine) SetBool(name string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[name] = v
}

// CurrentStateName returns the state playing on layer, or "" when out of range.
func (s *StateMachine) CurrentStateName(layer int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if layer < 0 || layer >= len(s.states) {
		return ""
	}
	return s.states[layer]
}

// SetState switches the current state on layer. Out-of-range layers are ignored.
func (s *StateMachine) SetState(layer int, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layer < 0 || layer >= len(s.states) {
		return
	}
	s.states[layer] = name
}

// LayerCount returns the number of layers.
func (s *StateMachine) LayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Skeleton returns the bound skeleton.
func (s *StateMachine) Skeleton() Skeleton {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skeleton
}

// Bind replaces the driven skeleton. Passing nil unbinds.
func (s *StateMachine) Bind(skeleton Skeleton) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skeleton = skeleton
}
