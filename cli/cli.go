// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for case sessions and incidents.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/wardround/engine"
	"github.com/nathoo/wardround/engine/events"
	"github.com/nathoo/wardround/engine/resolve"
	"github.com/nathoo/wardround/engine/save"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// CLI plays one case over a line-oriented reader and writer.
type CLI struct {
	Engine  *engine.Engine
	In      io.Reader
	Out     io.Writer
	SaveDir string
	Trace   bool

	// EchoInput repeats each line after the prompt, for script playback.
	EchoInput bool
}

// New returns a CLI on stdin and stdout.
func New(eng *engine.Engine, saveDir string) *CLI {
	return &CLI{Engine: eng, In: os.Stdin, Out: os.Stdout, SaveDir: saveDir}
}

// Run prints the case header and start node, then reads commands until
// the case reaches a terminal node, the player quits, or input ends.
func (c *CLI) Run() {
	cs := c.Engine.Case
	c.say(cs.Title)
	if cs.Description != "" {
		c.say(cs.Description)
	}
	c.say("")
	c.printHistory(0, false)
	c.showNode()
	if c.finished(c.Engine.StartEvents()) {
		return
	}

	lines := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "> ")
		if !lines.Scan() {
			return
		}
		line := strings.TrimSpace(lines.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if c.EchoInput {
			c.say(line)
		}
		if c.step(line) {
			return
		}
	}
}

// step handles one input line and reports whether the session is over.
func (c *CLI) step(line string) bool {
	if strings.HasPrefix(line, "/") {
		return c.handleMeta(line)
	}

	choice, err := resolve.Choice(c.Engine.AvailableChoices(), line)
	if err != nil {
		c.note(errorText(err))
		return false
	}

	mark := len(c.Engine.State().History)
	result := c.Engine.MakeChoice(choice.ID)
	if !result.Success {
		c.note(result.Message)
		return false
	}
	c.printHistory(mark, true)
	if c.Trace {
		c.printTrace(result)
	}
	c.showNode()
	return c.finished(result.Events)
}

// finished reports whether the session is over and prints the outcome.
func (c *CLI) finished(evts []types.Event) bool {
	if !c.Engine.IsTerminal() {
		return false
	}
	elapsed := c.Engine.State().TimeElapsed
	switch events.OutcomeOf(evts) {
	case events.OutcomeWin:
		c.note(fmt.Sprintf("Case complete at T+%dm. Well done.", elapsed))
	case events.OutcomeGameOver:
		c.note(fmt.Sprintf("Case lost at T+%dm.", elapsed))
	default:
		c.note(fmt.Sprintf("Case ended at T+%dm.", elapsed))
	}
	return true
}

// handleMeta runs a slash command. It returns true on /quit.
func (c *CLI) handleMeta(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		c.note("Goodbye.")
		return true
	case "/save":
		path, err := save.WriteFile(c.Engine, c.SaveDir, arg)
		if err != nil {
			c.note("Save failed: " + err.Error())
			break
		}
		c.note(fmt.Sprintf("Session saved to %s.", filepath.Base(path)))
	case "/load":
		path, sd, err := save.ReadFile(c.Engine, c.SaveDir, arg)
		if err != nil {
			c.note("Load failed: " + err.Error())
			break
		}
		c.note(fmt.Sprintf("Session loaded from %s (T+%dm).", filepath.Base(path), sd.State.TimeElapsed))
		c.showNode()
	case "/help":
		c.say(helpText)
	case "/state":
		c.cmdState()
	case "/history":
		c.printHistory(0, false)
	case "/look":
		c.showNode()
	case "/craft":
		c.cmdCraft(arg)
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.note("Trace output enabled.")
		} else {
			c.note("Trace output disabled.")
		}
	default:
		c.note(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name))
	}
	return false
}

const helpText = `System:
  /save [name]    Save session (default: case id)
  /load [name]    Load session (default: case id)
  /quit           Exit
  /help           Show this help
  /look           Show the current situation again
  /history        Show the full timeline
  /state          Show vitals, flags, inventory and relationships
  /craft [recipe] List recipes, or craft one from your inventory
  /trace          Toggle debug trace output

Choosing:
  Type an option's number, its id, or the start of its text.`

func (c *CLI) cmdCraft(recipeID string) {
	book := c.Engine.Recipes()
	if recipeID == "" {
		c.note("Recipes:")
		for _, r := range book.Recipes() {
			mark := " "
			if book.CanCraft(r.ID, c.Engine.State().Inventory) {
				mark = "*"
			}
			c.say(fmt.Sprintf(" %s %-20s %s -> %s", mark, r.ID, strings.Join(r.Ingredients, " + "), r.Result))
		}
		return
	}

	mark := len(c.Engine.State().History)
	result := c.Engine.Craft(recipeID)
	if !result.Success {
		c.note(result.Message)
		return
	}
	c.say(result.Message)
	c.printHistory(mark, true)
}

func (c *CLI) cmdState() {
	s := c.Engine.State()
	c.note(fmt.Sprintf("Node: %s  Elapsed: %dm  Stress: %s", c.Engine.NodeID(), s.TimeElapsed, state.FormatVital(s.Stress)))
	c.note("Vitals: " + FormatVitals(s.Vitals))
	c.note(fmt.Sprintf("Inventory: %v", s.Inventory))
	if len(s.Flags) > 0 {
		c.note(fmt.Sprintf("Flags: %v", s.Flags))
	}
	npcs := make([]string, 0, len(s.Relationships))
	for npc := range s.Relationships {
		npcs = append(npcs, npc)
	}
	sort.Strings(npcs)
	for _, npc := range npcs {
		c.note(fmt.Sprintf("Relationship %s: %v", npc, s.Relationships[npc]))
	}
}

// showNode prints the current node text and its numbered choices.
func (c *CLI) showNode() {
	n, ok := c.Engine.CurrentNode()
	if !ok {
		c.note(fmt.Sprintf("Lost: node %q does not exist.", c.Engine.NodeID()))
		return
	}
	c.say("")
	c.say(n.Text)
	for i, ch := range c.Engine.AvailableChoices() {
		label := ch.Text
		if ch.Category != "" {
			label += " (" + string(ch.Category) + ")"
		}
		c.say(fmt.Sprintf("  %d. %s", i+1, label))
	}
}

// printHistory prints the timeline from index from. With skipEcho the
// player's own "> choice" entries are left out.
func (c *CLI) printHistory(from int, skipEcho bool) {
	for _, e := range c.Engine.State().History[from:] {
		if skipEcho && strings.HasPrefix(e.Text, "> ") {
			continue
		}
		c.say("  " + state.FormatEntry(e))
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.note(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.note(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
}

// FormatVitals renders vitals in display order, skipping absent channels.
func FormatVitals(v types.Vitals) string {
	var parts []string
	for _, k := range state.KnownVitals {
		if val, ok := v[k]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", k, state.FormatVital(val)))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func errorText(err error) string {
	var amb *resolve.AmbiguityError
	if errors.As(err, &amb) {
		return "Which one? " + strings.Join(amb.Candidates, ", ")
	}
	return fmt.Sprintf("%v. Type a number, or /help.", err)
}

// say writes a plain line.
func (c *CLI) say(text string) {
	fmt.Fprintln(c.Out, text)
}

// note writes a bracketed system line.
func (c *CLI) note(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
