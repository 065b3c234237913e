// Package events summarises the events emitted by an engine operation so
// presentation layers can react to outcomes without parsing history text.
package events

import "github.com/nathoo/wardround/types"

// Outcome is the end-of-case signal carried by a batch of events.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeGameOver:
		return "game over"
	default:
		return "none"
	}
}

// Has returns true if any event has the given type.
func Has(evts []types.Event, eventType string) bool {
	for _, e := range evts {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

// Filter returns the events of the given type, in emission order.
func Filter(evts []types.Event, eventType string) []types.Event {
	var out []types.Event
	for _, e := range evts {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// OutcomeOf reports the last win or game-over marker in evts. A later marker
// overrides an earlier one.
func OutcomeOf(evts []types.Event) Outcome {
	out := OutcomeNone
	for _, e := range evts {
		switch e.Type {
		case types.EventWin:
			out = OutcomeWin
		case types.EventGameOver:
			out = OutcomeGameOver
		}
	}
	return out
}

// EnteredNodes returns the IDs of nodes entered, in order.
func EnteredNodes(evts []types.Event) []string {
	var ids []string
	for _, e := range Filter(evts, types.EventNodeEntered) {
		if id, ok := e.Data["node"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
