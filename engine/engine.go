// Package engine provides the case engine: a small interpreter that walks a
// patient case's narrative graph one player choice at a time, wiring together
// requirement evaluation and effect application.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/wardround/engine/crafting"
	"github.com/nathoo/wardround/engine/effects"
	"github.com/nathoo/wardround/engine/rules"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// Engine drives a single patient through a narrative case. It exclusively
// owns its PatientState; the case itself is shared read-only.
type Engine struct {
	Case *types.PatientCase

	state   *types.PatientState
	nodeID  string
	book    *crafting.Book
	log     *slog.Logger
	started []types.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecipes sets the recipe book consulted by Craft.
func WithRecipes(b *crafting.Book) Option {
	return func(e *Engine) {
		if b != nil {
			e.book = b
		}
	}
}

// New starts a session on the given case. The case's initial state is deep
// copied, so sessions never alias each other or the authored template. The
// start node's on-enter effects run immediately.
func New(c *types.PatientCase, opts ...Option) *Engine {
	e := &Engine{
		Case:  c,
		state: state.Clone(c.InitialState),
		book:  crafting.Default(),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("case", c.ID)
	e.started = e.enter(c.StartNodeID)
	return e
}

// StartEvents returns the events emitted while entering the start node.
func (e *Engine) StartEvents() []types.Event {
	return e.started
}

// NodeID returns the current node ID.
func (e *Engine) NodeID() string {
	return e.nodeID
}

// CurrentNode returns the current node. The bool is false if the current ID
// does not exist in the case.
func (e *Engine) CurrentNode() (types.NarrativeNode, bool) {
	n, ok := e.Case.Nodes[e.nodeID]
	return n, ok
}

// IsTerminal reports whether the current node ends the case.
func (e *Engine) IsTerminal() bool {
	n, ok := e.CurrentNode()
	return ok && n.IsTerminal
}

// State returns the live state. It is mutated by the next action; callers
// that need a stable snapshot must copy it (see state.Clone).
func (e *Engine) State() *types.PatientState {
	return e.state
}

// Recipes returns the recipe book consulted by Craft.
func (e *Engine) Recipes() *crafting.Book {
	return e.book
}

// AvailableChoices returns the current node's choices whose requirements
// hold, in authored order.
func (e *Engine) AvailableChoices() []types.Choice {
	n, ok := e.CurrentNode()
	if !ok {
		return nil
	}
	var out []types.Choice
	for _, c := range n.Choices {
		if rules.EvalAll(c.Requirements, e.state) {
			out = append(out, c)
		}
	}
	return out
}

// MakeChoice executes one choice on the current node.
//
// Order: requirements are re-checked, the choice is logged, its effects are
// applied in list order, its time cost is added, and finally the next node
// (if any) is entered and its on-enter effects applied. Failures leave the
// state untouched.
func (e *Engine) MakeChoice(choiceID string) types.Result {
	n, ok := e.CurrentNode()
	if !ok {
		e.log.Debug("choice refused", "choice", choiceID, "reason", "no current node", "node", e.nodeID)
		return types.Result{
			Message: fmt.Sprintf("No current node (%q).", e.nodeID),
			Code:    types.CodeNoCurrentNode,
		}
	}

	choice, ok := findChoice(n, choiceID)
	if !ok {
		e.log.Debug("choice refused", "choice", choiceID, "reason", "not found", "node", n.ID)
		return types.Result{
			Message: fmt.Sprintf("No choice %q here.", choiceID),
			Code:    types.CodeNotFound,
		}
	}

	if !rules.EvalAll(choice.Requirements, e.state) {
		e.log.Debug("choice refused", "choice", choiceID, "reason", "requirements not met", "node", n.ID)
		return types.Result{
			Message: fmt.Sprintf("You can't do that yet (%s).", choice.ID),
			Code:    types.CodeRequirementNotMet,
		}
	}

	state.Log(e.state, "> "+choice.Text)
	evts := effects.Apply(e.state, choice.Effects)

	// Time advances strictly after the choice's effects.
	if choice.TimeCost > 0 {
		e.state.TimeElapsed += choice.TimeCost
	}

	if choice.NextNodeID != "" {
		evts = append(evts, e.enter(choice.NextNodeID)...)
	}

	e.log.Debug("choice made", "choice", choice.ID, "node", e.nodeID, "elapsed", e.state.TimeElapsed)
	return types.Result{Success: true, Events: evts}
}

// Restore installs a saved state and node without re-running on-enter
// effects. The state is copied.
func (e *Engine) Restore(nodeID string, s types.PatientState) {
	e.state = state.Clone(s)
	e.nodeID = nodeID
	e.log.Debug("session restored", "node", nodeID, "elapsed", s.TimeElapsed)
}

// Craft combines ingredients from the inventory using the recipe book. On
// success one copy of each ingredient is consumed and the result is added.
// This is separate from the log-only CraftItem effect.
func (e *Engine) Craft(recipeID string) types.Result {
	out := e.book.Craft(recipeID, e.state.Inventory)
	if !out.Success {
		return types.Result{Message: out.Message, Code: out.Code}
	}

	r, _ := e.book.Recipe(recipeID)
	// A recipe may list an ingredient more than once; each listing needs its own copy.
	need := map[string]int{}
	for _, ing := range r.Ingredients {
		need[ing]++
	}
	var short []string
	for _, ing := range r.Ingredients {
		if n, ok := need[ing]; ok && state.CountItem(e.state, ing) < n {
			short = append(short, ing)
			delete(need, ing)
		}
	}
	if len(short) > 0 {
		return types.Result{
			Message: fmt.Sprintf("Missing ingredients for %s: %v.", recipeID, short),
			Code:    types.CodeMissingIngredients,
		}
	}

	consume := make([]types.Effect, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		consume = append(consume, types.RemoveItem{Item: ing})
	}
	evts := effects.Apply(e.state, consume)
	evts = append(evts, effects.Apply(e.state, []types.Effect{types.AddItem{Item: out.Item}})...)
	state.Log(e.state, "Crafted "+out.Item)
	evts = append(evts, types.Event{
		Type: types.EventItemCrafted,
		Data: map[string]any{"recipe": recipeID, "item": out.Item},
	})
	return types.Result{Success: true, Message: out.Message, Events: evts}
}

// enter moves to a node and runs its on-enter effects.
func (e *Engine) enter(nodeID string) []types.Event {
	e.nodeID = nodeID
	evts := []types.Event{{
		Type: types.EventNodeEntered,
		Data: map[string]any{"node": nodeID},
	}}
	n, ok := e.Case.Nodes[nodeID]
	if !ok {
		e.log.Warn("entered unknown node", "node", nodeID)
		return evts
	}
	if len(n.OnEnter) > 0 {
		evts = append(evts, effects.Apply(e.state, n.OnEnter)...)
	}
	e.log.Debug("node entered", "node", nodeID, "terminal", n.IsTerminal)
	return evts
}

func findChoice(n types.NarrativeNode, id string) (types.Choice, bool) {
	for _, c := range n.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return types.Choice{}, false
}
