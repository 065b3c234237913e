package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/wardround/engine/mci"
	"github.com/nathoo/wardround/engine/parser"
	"github.com/nathoo/wardround/engine/resolve"
	"github.com/nathoo/wardround/types"
)

// DefaultWait is how many seconds a bare "wait" advances the incident clock.
const DefaultWait = 10

// Incident runs a turn-based mass-casualty incident on a line terminal.
// The clock only moves on "wait".
type Incident struct {
	Manager   *mci.Manager
	In        io.Reader
	Out       io.Writer
	EchoInput bool
}

// NewIncident creates an incident CLI around a started manager.
func NewIncident(m *mci.Manager) *Incident {
	return &Incident{Manager: m, In: os.Stdin, Out: os.Stdout}
}

// Run loops until every patient is resolved, on quit, or at end of input.
func (c *Incident) Run() {
	c.printBoard()

	var last string
	scanner := bufio.NewScanner(c.In)
	for !c.Manager.Done() {
		fmt.Fprint(c.Out, "mci> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			fmt.Fprintln(c.Out, input)
		}
		if lower := strings.ToLower(input); lower == "again" || lower == "g" {
			if last == "" {
				c.printSystem("Nothing to repeat.")
				continue
			}
			input = last
		}
		last = input
		if c.dispatch(parser.Parse(input)) {
			return
		}
	}
	c.printSummary()
}

// dispatch executes one parsed command. Returns true on quit.
func (c *Incident) dispatch(intent types.Intent) bool {
	switch intent.Verb {
	case "quit":
		c.printSummary()
		return true

	case "help":
		c.printHelp()

	case "status":
		c.printBoard()

	case "wait":
		secs := DefaultWait
		if len(intent.Args) > 0 {
			n, err := strconv.Atoi(intent.Args[0])
			if err != nil || n <= 0 {
				c.printSystem(fmt.Sprintf("Can't wait %q seconds.", intent.Args[0]))
				return false
			}
			secs = n
		}
		c.Manager.Tick(secs)
		c.printBoard()

	case "triage":
		if len(intent.Args) < 2 {
			c.printSystem("Usage: triage <patient> <black|red|yellow|green>")
			return false
		}
		idx, ok := c.patient(intent.Args[0])
		if !ok {
			return false
		}
		level, err := mci.ParseTriage(intent.Args[1])
		if err != nil {
			c.printSystem(err.Error())
			return false
		}
		c.Manager.AssignTriage(idx, level)
		c.printSystem(fmt.Sprintf("%s tagged %s.", c.Manager.State().Patients[idx].ID, level))

	case "assign":
		if len(intent.Args) < 2 {
			c.printSystem("Usage: assign <patient> <resource>")
			return false
		}
		idx, ok := c.patient(intent.Args[0])
		if !ok {
			return false
		}
		res, err := mci.ParseResource(intent.Args[1])
		if err != nil {
			c.printSystem(err.Error())
			return false
		}
		id := c.Manager.State().Patients[idx].ID
		if !c.Manager.AssignResource(idx, res) {
			c.printSystem(fmt.Sprintf("Cannot assign %s to %s.", res, id))
			return false
		}
		c.printSystem(fmt.Sprintf("Assigned %s to %s.", res, id))

	default:
		c.printSystem(fmt.Sprintf("Unknown command %q. Type help.", intent.Verb))
	}
	return false
}

func (c *Incident) patient(arg string) (int, bool) {
	idx, err := resolve.Patient(c.Manager.State().Patients, arg)
	if err != nil {
		c.printSystem(err.Error())
		return -1, false
	}
	return idx, true
}

func (c *Incident) printBoard() {
	for _, line := range FormatBoard(c.Manager.Snapshot()) {
		fmt.Fprintln(c.Out, line)
	}
}

func (c *Incident) printSummary() {
	s := c.Manager.State()
	c.printSystem(fmt.Sprintf("Incident over at %s. Lives lost: %d.", FormatClock(s.ElapsedSeconds), s.LivesLost))
}

func (c *Incident) printHelp() {
	help := []string{
		"Commands:",
		"  triage <n> <black|red|yellow|green>   Tag a patient (t, tag)",
		"  assign <n> <resource>                 Commit a resource (a, give ... to <n>)",
		"  wait [seconds]                        Let the clock run (z, default 10s)",
		"  status                                Show the board (s)",
		"  again                                 Repeat the last command (g)",
		"  quit                                  End the incident (q)",
		"Resources: beds, nurses, residents, attendings, blood, vents, or",
	}
	for _, line := range help {
		fmt.Fprintln(c.Out, line)
	}
}

func (c *Incident) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

// FormatClock renders seconds as mm:ss.
func FormatClock(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatBoard renders the incident as plain text lines.
func FormatBoard(s types.MCIState) []string {
	r := s.Resources
	lines := []string{
		fmt.Sprintf("MCI %s  lost %d", FormatClock(s.ElapsedSeconds), s.LivesLost),
		fmt.Sprintf("beds %d  nurses %d  residents %d  attendings %d  blood %d  vents %d  or %d",
			r.Beds, r.Nurses, r.Residents, r.Attendings, r.BloodUnits, r.Ventilators, r.ORSlots),
	}
	for i, p := range s.Patients {
		title := p.ID
		if p.Case != nil && p.Case.Title != "" {
			title = p.Case.Title
		}
		countdown := "--"
		switch p.Status {
		case types.StatusWaiting, types.StatusStabilizing, types.StatusCritical:
			countdown = fmt.Sprintf("%4ds", p.TimeToCritical)
		}
		lines = append(lines, fmt.Sprintf("%2d. %-7s %-11s %6s  %-28s %s",
			i+1, p.Triage, p.Status, countdown, title, FormatVitals(p.Vitals)))
	}
	return lines
}
