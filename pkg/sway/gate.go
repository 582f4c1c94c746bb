package sway

import (
	"strings"

	"github.com/teslashibe/go-sway/pkg/rig"
)

// GateState is the per-tick result of reading the animator flags.
type GateState struct {
	Dragging    bool `json:"dragging"`
	Sitting     bool `json:"sitting"`
	Whitelisted bool `json:"whitelisted"`
	Active      bool `json:"active"`
}

// EvaluateGate computes
//
//	active = dragging && whitelisted && !(disableWhileSitting && sitting)
func EvaluateGate(cfg GateConfig, sp rig.StateProvider) GateState {
	if sp == nil {
		return GateState{}
	}
	g := GateState{
		Dragging:    sp.Bool(cfg.DraggingParam),
		Sitting:     sp.Bool(cfg.SittingParam),
		Whitelisted: inAllowedState(cfg, sp),
	}
	g.Active = g.Dragging && g.Whitelisted && !(cfg.DisableWhileSitting && g.Sitting)
	return g
}

// inAllowedState is permissive when the whitelist is off or empty.
func inAllowedState(cfg GateConfig, sp rig.StateProvider) bool {
	if !cfg.UseWhitelist || len(cfg.AllowedStates) == 0 {
		return true
	}

	last := sp.LayerCount() - 1
	if last < 0 {
		last = 0
	}
	layer := cfg.StateLayer
	if layer < 0 {
		layer = 0
	}
	if layer > last {
		layer = last
	}

	current := sp.CurrentStateName(layer)
	for _, s := range cfg.AllowedStates {
		if stateMatches(s, current) {
			return true
		}
	}
	return false
}

// stateMatches accepts the bare state name or a layer-qualified path such as
// "Base Layer.Drag".
func stateMatches(allowed, current string) bool {
	if allowed == "" || current == "" {
		return false
	}
	if allowed == current {
		return true
	}
	return len(allowed) > len(current)+1 && strings.HasSuffix(allowed, "."+current)
}
