// Package rules evaluates choice requirements against patient state.
package rules

import (
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// Eval evaluates a single requirement against the current state.
// Skill and vital requirements are accepted but not enforced yet: content may
// reference them, and they always pass.
func Eval(r types.Requirement, s *types.PatientState) bool {
	switch req := r.(type) {
	case types.FlagRequirement:
		return state.HasFlag(s, req.Flag)

	case types.ItemRequirement:
		return state.HasItem(s, req.Item)

	case types.SkillRequirement, types.VitalRequirement:
		return true

	default:
		return true
	}
}

// EvalAll returns true if every requirement holds (AND logic).
// An empty or nil list is vacuously true.
func EvalAll(reqs []types.Requirement, s *types.PatientState) bool {
	for _, r := range reqs {
		if !Eval(r, s) {
			return false
		}
	}
	return true
}
