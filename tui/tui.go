package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/wardround/cli"
	"github.com/nathoo/wardround/engine"
	"github.com/nathoo/wardround/engine/events"
	"github.com/nathoo/wardround/engine/resolve"
	"github.com/nathoo/wardround/engine/save"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// outputLine is one unwrapped line of the transcript. Lines are kept
// unwrapped so a resize can re-flow the whole transcript.
type outputLine struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for playing a single case.
type Model struct {
	engine  *engine.Engine
	saveDir string

	viewport   viewport.Model
	input      textinput.Model
	history    *History
	transcript []outputLine

	width, height int
	ready         bool // viewport sized
	trace         bool
	quitting      bool
}

// turnMsg is one exchange: the echoed command, if any, and its reply.
type turnMsg struct {
	echo  string
	lines []string
	meta  bool
}

// New returns a model that plays eng and writes /save files under saveDir.
func New(eng *engine.Engine, saveDir string) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = styleInputPrompt
	in.CharLimit = 256
	in.Focus()
	return Model{engine: eng, saveDir: saveDir, input: in, history: NewHistory(100)}
}

// Run plays eng full screen until the player quits.
func Run(eng *engine.Engine, saveDir string) error {
	_, err := tea.NewProgram(New(eng, saveDir), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Init returns the initial command that produces the case header and first node.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		cs := m.engine.Case
		lines := []string{cs.Title + " (" + string(cs.Difficulty) + ")", ""}

		if cs.Description != "" {
			lines = append(lines, cs.Description, "")
		}

		lines = append(lines, m.timeline(0, false)...)
		lines = append(lines, m.nodeLines()...)
		lines = append(lines, m.outcomeLines(m.engine.StartEvents())...)

		return turnMsg{lines: lines}
	}
}

// Update routes resizes, keys and engine output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case k == "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case k == "enter":
			return m.handleEnter()
		case k == "pgup" || k == "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		case m.history.recall(&m.input, k):
			return m, nil
		}

	case turnMsg:
		m = m.record(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the viewport between the top of the screen and the status
// bar and input rows.
func (m Model) resize(width, height int) Model {
	m.width, m.height = width, height
	rows := max(height-2, 1)
	if m.ready {
		m.viewport.Width, m.viewport.Height = width, rows
	} else {
		m.viewport = viewport.New(width, rows)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	}
	m.reflow()
	return m
}

// handleEnter submits the input line as a slash command or a choice.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if line == "" {
		return m, nil
	}
	m.history.Push(line)
	m.history.ResetCursor()

	if !strings.HasPrefix(line, "/") {
		reply, taken := m.choose(line)
		return m.record(turnMsg{echo: line, lines: reply, meta: !taken}), nil
	}

	reply, quit := m.handleMeta(line)
	m = m.record(turnMsg{echo: line, lines: reply, meta: true})
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// choose resolves input against the available choices and makes the
// choice. It returns the lines to show and whether the choice was taken.
func (m *Model) choose(input string) ([]string, bool) {
	if m.engine.IsTerminal() {
		return []string{"The case is over. /load a session or /quit."}, false
	}

	choice, err := resolve.Choice(m.engine.AvailableChoices(), input)
	if err != nil {
		var amb *resolve.AmbiguityError
		if errors.As(err, &amb) {
			return []string{"Which one? " + strings.Join(amb.Candidates, ", ")}, false
		}
		return []string{fmt.Sprintf("%v. Type a number, or /help.", err)}, false
	}

	mark := len(m.engine.State().History)
	result := m.engine.MakeChoice(choice.ID)
	if !result.Success {
		return []string{result.Message}, false
	}

	lines := m.timeline(mark, true)
	if m.trace {
		lines = append(lines, m.formatTrace(result)...)
	}
	lines = append(lines, m.nodeLines()...)
	lines = append(lines, m.outcomeLines(result.Events)...)
	return lines, true
}

// timeline returns history entries from index from onward. With skipEcho
// the player's own "> choice" entries are left out.
func (m *Model) timeline(from int, skipEcho bool) []string {
	var lines []string
	for _, e := range m.engine.State().History[from:] {
		if skipEcho && strings.HasPrefix(e.Text, "> ") {
			continue
		}
		lines = append(lines, state.FormatEntry(e))
	}
	return lines
}

// nodeLines renders the current node and its numbered choices.
func (m *Model) nodeLines() []string {
	n, ok := m.engine.CurrentNode()
	if !ok {
		return []string{fmt.Sprintf("[Lost: node %q does not exist.]", m.engine.NodeID())}
	}
	lines := []string{"", n.Text}
	for i, ch := range m.engine.AvailableChoices() {
		label := ch.Text
		if ch.Category != "" {
			label = fmt.Sprintf("%s (%s)", ch.Text, ch.Category)
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, label))
	}
	return lines
}

func (m *Model) outcomeLines(evts []types.Event) []string {
	if !m.engine.IsTerminal() {
		return nil
	}
	elapsed := m.engine.State().TimeElapsed
	switch events.OutcomeOf(evts) {
	case events.OutcomeWin:
		return []string{fmt.Sprintf("[Case complete at T+%dm. Well done.]", elapsed)}
	case events.OutcomeGameOver:
		return []string{fmt.Sprintf("[Case lost at T+%dm.]", elapsed)}
	default:
		return []string{fmt.Sprintf("[Case ended at T+%dm.]", elapsed)}
	}
}

// record appends a turn to the transcript, followed by a blank line.
func (m Model) record(t turnMsg) Model {
	if t.echo != "" {
		m.transcript = append(m.transcript, outputLine{text: t.echo, kind: kindEcho})
	}
	for _, text := range t.lines {
		kind := kindMeta
		switch {
		case t.meta:
		case len(m.transcript) == 0:
			kind = kindHeader
		default:
			kind = classifyLine(text)
		}
		m.transcript = append(m.transcript, outputLine{text: text, kind: kind})
	}
	m.transcript = append(m.transcript, outputLine{})
	m.reflow()
	return m
}

// reflow wraps and paints the transcript at the current width and
// scrolls to the newest line.
func (m *Model) reflow() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	painted := make([]string, len(m.transcript))
	for i, l := range m.transcript {
		if l.text != "" {
			painted[i] = paint(l.kind, wordWrap(l.text, width))
		}
	}
	m.viewport.SetContent(strings.Join(painted, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at spaces so no line exceeds width, unless a single
// word is longer. Indentation is kept on the first line only.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	body := strings.TrimLeft(text, " ")
	var lines []string
	line := text[:len(text)-len(body)]
	fresh := true
	for _, w := range strings.Fields(body) {
		switch {
		case fresh:
			line += w
		case len(line)+1+len(w) > width:
			lines = append(lines, line)
			line = w
		default:
			line += " " + w
		}
		fresh = false
	}
	return strings.Join(append(lines, line), "\n")
}

// View stacks the transcript, the status bar and the prompt.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// metaCommand runs a slash command with its optional argument.
type metaCommand func(m *Model, arg string) []string

var metaCommands = map[string]metaCommand{
	"/save":    (*Model).cmdSave,
	"/load":    (*Model).cmdLoad,
	"/craft":   (*Model).cmdCraft,
	"/help":    func(m *Model, _ string) []string { return m.cmdHelp() },
	"/state":   func(m *Model, _ string) []string { return m.cmdState() },
	"/history": func(m *Model, _ string) []string { return m.timeline(0, false) },
	"/look":    func(m *Model, _ string) []string { return m.nodeLines() },
	"/trace": func(m *Model, _ string) []string {
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}
		}
		return []string{"Trace output disabled."}
	},
}

// handleMeta dispatches slash commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	if name == "/quit" || name == "/exit" {
		return []string{"Goodbye."}, true
	}
	run, ok := metaCommands[name]
	if !ok {
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name)}, false
	}
	return run(m, arg), false
}

func (m *Model) cmdSave(name string) []string {
	path, err := save.WriteFile(m.engine, m.saveDir, name)
	if err != nil {
		return []string{"Save failed: " + err.Error()}
	}
	return []string{fmt.Sprintf("Session saved to %s.", filepath.Base(path))}
}

func (m *Model) cmdLoad(name string) []string {
	path, sd, err := save.ReadFile(m.engine, m.saveDir, name)
	if err != nil {
		return []string{"Load failed: " + err.Error()}
	}
	reply := []string{fmt.Sprintf("Session loaded from %s (T+%dm).", filepath.Base(path), sd.State.TimeElapsed)}
	return append(reply, m.nodeLines()...)
}

func (m *Model) cmdCraft(recipeID string) []string {
	book := m.engine.Recipes()
	if recipeID == "" {
		output := []string{"Recipes (* = craftable now):"}
		for _, r := range book.Recipes() {
			mark := " "
			if book.CanCraft(r.ID, m.engine.State().Inventory) {
				mark = "*"
			}
			output = append(output, fmt.Sprintf(" %s %s: %s -> %s", mark, r.ID, strings.Join(r.Ingredients, " + "), r.Result))
		}
		return output
	}

	mark := len(m.engine.State().History)
	result := m.engine.Craft(recipeID)
	if !result.Success {
		return []string{result.Message}
	}
	return append([]string{result.Message}, m.timeline(mark, true)...)
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /save [name]     Save session (default: case id)",
		"  /load [name]     Load session (default: case id)",
		"  /quit            Exit",
		"  /help            Show this help",
		"  /look            Show the current situation again",
		"  /history         Show the full timeline",
		"  /state           Show vitals, flags, inventory and relationships",
		"  /craft [recipe]  List recipes, or craft one from your inventory",
		"  /trace           Toggle debug trace output",
		"",
		"Choosing: type an option's number, its id, or the start of its text.",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.State()
	output := []string{
		fmt.Sprintf("Node: %s", m.engine.NodeID()),
		fmt.Sprintf("Elapsed: %dm  Stress: %s", s.TimeElapsed, state.FormatVital(s.Stress)),
		"Vitals: " + cli.FormatVitals(s.Vitals),
		fmt.Sprintf("Inventory: %v", s.Inventory),
	}
	if len(s.Flags) > 0 {
		output = append(output, fmt.Sprintf("Flags: %v", s.Flags))
	}
	npcs := make([]string, 0, len(s.Relationships))
	for npc := range s.Relationships {
		npcs = append(npcs, npc)
	}
	sort.Strings(npcs)
	for _, npc := range npcs {
		output = append(output, fmt.Sprintf("Relationship %s: %v", npc, s.Relationships[npc]))
	}
	return output
}

func (m *Model) formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap leaves Up and Down to input history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
