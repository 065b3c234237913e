package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// nodeDisplayName derives a human-readable name from a node ID.
// "primary_survey" -> "Primary Survey", "ed_bay" -> "Ed Bay".
func nodeDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var vitalLabels = map[types.Vital]string{
	types.VitalHeartRate:   "HR",
	types.VitalSpO2:        "SpO2",
	types.VitalTemperature: "T",
	types.VitalRespRate:    "RR",
	types.VitalPain:        "Pain",
	types.VitalEtCO2:       "EtCO2",
}

// compactVitals renders vitals as monitor shorthand, e.g.
// "HR 110 BP 90/60 SpO2 94". Systolic and diastolic share one "BP" slot.
func compactVitals(v types.Vitals) string {
	var parts []string
	for _, k := range state.KnownVitals {
		val, ok := v[k]
		if !ok {
			continue
		}
		switch k {
		case types.VitalSystolic:
			bp := state.FormatVital(val)
			if dia, ok := v[types.VitalDiastolic]; ok {
				bp += "/" + state.FormatVital(dia)
			}
			parts = append(parts, "BP "+bp)
		case types.VitalDiastolic:
			if _, ok := v[types.VitalSystolic]; !ok {
				parts = append(parts, "BP -/"+state.FormatVital(val))
			}
		default:
			parts = append(parts, vitalLabels[k]+" "+state.FormatVital(val))
		}
	}
	return strings.Join(parts, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// case, the current node, vitals, stress and elapsed time.
func (m Model) renderStatusBar() string {
	s := m.engine.State()

	left := fmt.Sprintf(" %s | %s", m.engine.Case.Title, nodeDisplayName(m.engine.NodeID()))
	right := fmt.Sprintf("Stress %s | T+%dm ", state.FormatVital(s.Stress), s.TimeElapsed)

	// Show vitals if they fit.
	if vitals := compactVitals(s.Vitals); vitals != "" {
		candidate := vitals + " | " + right
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
