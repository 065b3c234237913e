// Package state manages the mutable patient state: construction, deep copies,
// lookups, and the timestamped history log.
package state

import (
	"fmt"

	"github.com/nathoo/wardround/types"
)

// KnownVitals lists every vital channel the engine recognises, in display order.
var KnownVitals = []types.Vital{
	types.VitalHeartRate,
	types.VitalSystolic,
	types.VitalDiastolic,
	types.VitalSpO2,
	types.VitalTemperature,
	types.VitalRespRate,
	types.VitalPain,
	types.VitalEtCO2,
}

// IsKnownVital reports whether v names a recognised vital channel.
func IsKnownVital(v types.Vital) bool {
	for _, k := range KnownVitals {
		if k == v {
			return true
		}
	}
	return false
}

// NewState creates an empty patient state with all collections allocated.
func NewState() *types.PatientState {
	return &types.PatientState{
		Vitals:        types.Vitals{},
		Flags:         []string{},
		Inventory:     []string{},
		History:       []types.LogEntry{},
		Relationships: map[string]map[string]int{},
	}
}

// Clone returns a deep copy of s. The copy shares no memory with s.
func Clone(s types.PatientState) *types.PatientState {
	c := NewState()
	for k, v := range s.Vitals {
		c.Vitals[k] = v
	}
	c.Flags = append(c.Flags, s.Flags...)
	c.Inventory = append(c.Inventory, s.Inventory...)
	c.History = append(c.History, s.History...)
	c.Stress = s.Stress
	c.TimeElapsed = s.TimeElapsed
	for npc, dims := range s.Relationships {
		m := make(map[string]int, len(dims))
		for d, v := range dims {
			m[d] = v
		}
		c.Relationships[npc] = m
	}
	return c
}

// CloneVitals returns an independent copy of v.
func CloneVitals(v types.Vitals) types.Vitals {
	c := make(types.Vitals, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// HasFlag returns true if the flag is set.
func HasFlag(s *types.PatientState, flag string) bool {
	for _, f := range s.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// HasItem returns true if at least one copy of the item is in inventory.
func HasItem(s *types.PatientState, item string) bool {
	for _, id := range s.Inventory {
		if id == item {
			return true
		}
	}
	return false
}

// CountItem returns how many copies of the item are carried.
func CountItem(s *types.PatientState, item string) int {
	n := 0
	for _, id := range s.Inventory {
		if id == item {
			n++
		}
	}
	return n
}

// Relationship returns the affinity for an NPC along one dimension.
// Unknown NPCs and dimensions return 0. An empty dimension means
// types.DefaultDimension.
func Relationship(s *types.PatientState, npc, dimension string) int {
	if dimension == "" {
		dimension = types.DefaultDimension
	}
	return s.Relationships[npc][dimension]
}

// AddRelationship adds delta to an NPC dimension and returns the new value.
func AddRelationship(s *types.PatientState, npc, dimension string, delta int) int {
	if dimension == "" {
		dimension = types.DefaultDimension
	}
	if s.Relationships == nil {
		s.Relationships = map[string]map[string]int{}
	}
	dims, ok := s.Relationships[npc]
	if !ok {
		dims = map[string]int{}
		s.Relationships[npc] = dims
	}
	dims[dimension] += delta
	return dims[dimension]
}

// Log appends a history line stamped with the current elapsed time.
func Log(s *types.PatientState, text string) {
	s.History = append(s.History, types.LogEntry{Minute: s.TimeElapsed, Text: text})
}

// FormatEntry renders a history line as "[T+12m] text".
func FormatEntry(e types.LogEntry) string {
	return fmt.Sprintf("[T+%dm] %s", e.Minute, e.Text)
}

// FormatVital renders a vital reading without a trailing ".0" for whole numbers.
func FormatVital(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
