package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/wardround/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTimeline = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleTitle = lipgloss.NewStyle().
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleDeceased = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)

// triageStyles colours each START category the way tags are printed.
var triageStyles = map[types.TriageLevel]lipgloss.Style{
	types.TriageBlack:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("232")).Bold(true),
	types.TriageRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("160")).Bold(true),
	types.TriageYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("220")).Bold(true),
	types.TriageGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("34")).Bold(true),
}

// styledTriage renders a triage tag padded to a fixed width.
func styledTriage(level types.TriageLevel) string {
	label := " " + string(level) + strings.Repeat(" ", 7-len(level))
	if st, ok := triageStyles[level]; ok {
		return st.Render(label)
	}
	return label
}

// lineKind says how an output line is painted.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTimeline
	kindChoice
	kindSystem
	kindError
	kindTrace
	kindHeader // first line of a case
	kindEcho   // what the player typed
	kindMeta   // slash-command output, bracketed on render
)

var kindStyles = map[lineKind]lipgloss.Style{
	kindNarrative: styleNarrative,
	kindTimeline:  styleTimeline,
	kindChoice:    styleChoice,
	kindSystem:    styleSystem,
	kindError:     styleError,
	kindTrace:     styleTrace,
	kindHeader:    styleTitle,
}

// paint styles an already wrapped line.
func paint(kind lineKind, line string) string {
	switch kind {
	case kindEcho:
		return styledPlayerInput(line)
	case kindMeta:
		return styledSystemMsg(line)
	}
	return kindStyles[kind].Render(line)
}

// classifyLine picks a kind for engine output from its shape.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[T+"):
		return kindTimeline
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case isChoiceLine(line):
		return kindChoice
	case strings.Contains(line, "GAME OVER"):
		return kindError
	}
	return kindNarrative
}

// isChoiceLine matches "  3. Do something".
func isChoiceLine(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(trimmed) == len(line) {
		return false
	}
	dot := strings.Index(trimmed, ". ")
	if dot <= 0 {
		return false
	}
	for _, r := range trimmed[:dot] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// styledPlayerInput echoes a command behind the prompt marker.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg brackets a message and dims it.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
