package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/wardround/cli"
	"github.com/nathoo/wardround/engine/mci"
	"github.com/nathoo/wardround/engine/parser"
	"github.com/nathoo/wardround/engine/resolve"
	"github.com/nathoo/wardround/types"
)

// maxMessages is how many command responses the board keeps on screen.
const maxMessages = 6

// tickMsg advances the incident clock.
type tickMsg time.Time

// Board is the Bubble Tea model for a real-time mass-casualty incident.
// The clock advances by tickSeconds of game time every interval.
type Board struct {
	manager     *mci.Manager
	interval    time.Duration
	tickSeconds int

	input    textinput.Model
	history  *History
	messages []string

	width    int
	paused   bool
	over     bool
	quitting bool
}

// NewBoard creates a board around a started manager.
func NewBoard(m *mci.Manager, interval time.Duration, tickSeconds int) Board {
	ti := textinput.New()
	ti.Prompt = "mci> "
	ti.Focus()
	ti.CharLimit = 128
	ti.PromptStyle = styleInputPrompt

	return Board{
		manager:     m,
		interval:    interval,
		tickSeconds: tickSeconds,
		input:       ti,
		history:     NewHistory(50),
		messages:    []string{"Type help for commands. Ctrl+P pauses the clock."},
	}
}

// RunBoard starts the Bubble Tea program for an incident.
func RunBoard(m *mci.Manager, interval time.Duration, tickSeconds int) error {
	b := NewBoard(m, interval, tickSeconds)
	p := tea.NewProgram(b, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink and the incident clock.
func (b Board) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, b.tick())
}

func (b Board) tick() tea.Cmd {
	return tea.Tick(b.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles clock ticks, key presses and resizes.
func (b Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		return b, nil

	case tickMsg:
		if b.over {
			return b, nil
		}
		if !b.paused {
			b.manager.Tick(b.tickSeconds)
		}
		b = b.checkOver()
		if b.over {
			return b, nil
		}
		return b, b.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			b.quitting = true
			return b, tea.Quit

		case "ctrl+p":
			b.paused = !b.paused
			if b.paused {
				b = b.say("Clock paused.")
			} else {
				b = b.say("Clock running.")
			}
			return b, nil

		case "enter":
			return b.handleEnter()
		}
		if b.history.recall(&b.input, msg.String()) {
			return b, nil
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

func (b Board) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(b.input.Value())
	b.input.SetValue("")
	if input == "" {
		return b, nil
	}

	// "again" repeats the previous command, usually a wait.
	if lower := strings.ToLower(input); lower == "again" || lower == "g" {
		last, ok := b.history.Last()
		if !ok {
			return b.say("Nothing to repeat."), nil
		}
		input = last
	}
	b.history.Push(input)
	b.history.ResetCursor()

	var quit bool
	b, quit = b.execute(parser.Parse(input))
	if quit {
		b.quitting = true
		return b, tea.Quit
	}
	return b.checkOver(), nil
}

// execute runs one parsed command against the manager. Returns true on quit.
func (b Board) execute(intent types.Intent) (Board, bool) {
	switch intent.Verb {
	case "quit":
		return b, true

	case "help":
		return b.say("triage <n> <black|red|yellow|green> | assign <n> <resource> | wait [s] | again | quit"), false

	case "status":
		s := b.manager.State()
		return b.say(fmt.Sprintf("%s elapsed, lives lost: %d.", cli.FormatClock(s.ElapsedSeconds), s.LivesLost)), false

	case "wait":
		secs := cli.DefaultWait
		if len(intent.Args) > 0 {
			n, err := strconv.Atoi(intent.Args[0])
			if err != nil || n <= 0 {
				return b.say(fmt.Sprintf("Can't wait %q seconds.", intent.Args[0])), false
			}
			secs = n
		}
		b.manager.Tick(secs)
		return b.say(fmt.Sprintf("%ds pass.", secs)), false

	case "triage":
		if len(intent.Args) < 2 {
			return b.say("Usage: triage <patient> <black|red|yellow|green>"), false
		}
		idx, err := resolve.Patient(b.manager.State().Patients, intent.Args[0])
		if err != nil {
			return b.say(err.Error()), false
		}
		level, err := mci.ParseTriage(intent.Args[1])
		if err != nil {
			return b.say(err.Error()), false
		}
		b.manager.AssignTriage(idx, level)
		return b.say(fmt.Sprintf("%s tagged %s.", b.manager.State().Patients[idx].ID, level)), false

	case "assign":
		if len(intent.Args) < 2 {
			return b.say("Usage: assign <patient> <resource>"), false
		}
		idx, err := resolve.Patient(b.manager.State().Patients, intent.Args[0])
		if err != nil {
			return b.say(err.Error()), false
		}
		res, err := mci.ParseResource(intent.Args[1])
		if err != nil {
			return b.say(err.Error()), false
		}
		id := b.manager.State().Patients[idx].ID
		if !b.manager.AssignResource(idx, res) {
			return b.say(fmt.Sprintf("Cannot assign %s to %s.", res, id)), false
		}
		return b.say(fmt.Sprintf("Assigned %s to %s.", res, id)), false

	default:
		return b.say(fmt.Sprintf("Unknown command %q. Type help.", intent.Verb)), false
	}
}

// checkOver marks the board finished once every patient is resolved.
func (b Board) checkOver() Board {
	if b.over || !b.manager.Done() {
		return b
	}
	b.over = true
	s := b.manager.State()
	return b.say(fmt.Sprintf("Incident over at %s. Lives lost: %d. Ctrl+C to exit.", cli.FormatClock(s.ElapsedSeconds), s.LivesLost))
}

func (b Board) say(text string) Board {
	b.messages = append(b.messages, text)
	if len(b.messages) > maxMessages {
		b.messages = b.messages[len(b.messages)-maxMessages:]
	}
	return b
}

// View renders the header, patient rows, messages and the prompt.
func (b Board) View() string {
	if b.quitting {
		return ""
	}
	s := b.manager.Snapshot()

	var sb strings.Builder
	sb.WriteString(b.renderHeader(s))
	sb.WriteString("\n\n")
	for i, p := range s.Patients {
		sb.WriteString(renderPatientRow(i, p))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for _, m := range b.messages {
		sb.WriteString(styledSystemMsg(m))
		sb.WriteString("\n")
	}
	sb.WriteString(b.input.View())
	return sb.String()
}

func (b Board) renderHeader(s types.MCIState) string {
	r := s.Resources
	left := fmt.Sprintf(" MCI %s | lost %d", cli.FormatClock(s.ElapsedSeconds), s.LivesLost)
	if b.paused {
		left += " | PAUSED"
	}
	right := fmt.Sprintf("beds %d nurses %d res %d att %d blood %d vent %d or %d ",
		r.Beds, r.Nurses, r.Residents, r.Attendings, r.BloodUnits, r.Ventilators, r.ORSlots)

	width := b.width
	if width == 0 {
		width = lipgloss.Width(left) + lipgloss.Width(right) + 2
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderPatientRow renders one patient: number, triage tag, status,
// countdown, title, vitals and assigned resources.
func renderPatientRow(i int, p types.MCIPatient) string {
	title := p.ID
	if p.Case != nil && p.Case.Title != "" {
		title = p.Case.Title
	}

	countdown := "   --"
	switch p.Status {
	case types.StatusWaiting, types.StatusStabilizing, types.StatusCritical:
		countdown = fmt.Sprintf("%4ds", p.TimeToCritical)
	}

	row := fmt.Sprintf("%-11s %s  %-28s %s", p.Status, countdown, title, compactVitals(p.Vitals))
	if len(p.Resources) > 0 {
		row += "  [" + joinResources(p.Resources) + "]"
	}

	switch p.Status {
	case types.StatusDeceased:
		row = styleDeceased.Render(row)
	case types.StatusCritical:
		row = styleError.Render(row)
	}
	return fmt.Sprintf("%2d. %s %s", i+1, styledTriage(p.Triage), row)
}

func joinResources(rs []types.Resource) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = string(r)
	}
	return strings.Join(names, ",")
}
