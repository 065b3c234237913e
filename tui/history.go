// Package tui provides Bubble Tea terminal UIs for case play and incidents.
package tui

import "github.com/charmbracelet/bubbles/textinput"

// History is a fixed-capacity ring of submitted input lines with a
// browsing cursor for Up/Down recall.
type History struct {
	buf  []string
	head int // index of the oldest entry
	size int
	pos  int // steps back from the newest entry; 0 = editing fresh input
}

// NewHistory creates a history ring holding at most capacity lines.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]string, capacity)}
}

// Len returns the number of stored lines.
func (h *History) Len() int { return h.size }

// at returns the i-th newest line, 1-based.
func (h *History) at(i int) string {
	return h.buf[(h.head+h.size-i)%len(h.buf)]
}

// Push records a line. A repeat of the newest line is not stored twice.
func (h *History) Push(line string) {
	if h.size > 0 && h.at(1) == line {
		return
	}
	if h.size < len(h.buf) {
		h.buf[(h.head+h.size)%len(h.buf)] = line
		h.size++
		return
	}
	h.buf[h.head] = line
	h.head = (h.head + 1) % len(h.buf)
}

// Last returns the newest line.
func (h *History) Last() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	return h.at(1), true
}

// Prev steps back to an older line, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	if h.pos < h.size {
		h.pos++
	}
	return h.at(h.pos), true
}

// Next steps forward to a newer line. Stepping past the newest returns
// ("", false) and ends browsing.
func (h *History) Next() (string, bool) {
	if h.pos <= 1 {
		h.pos = 0
		return "", false
	}
	h.pos--
	return h.at(h.pos), true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.pos = 0
}

// recall handles the Up and Down keys for an input field. It reports
// whether the key was consumed.
func (h *History) recall(in *textinput.Model, key string) bool {
	switch key {
	case "up":
		if line, ok := h.Prev(); ok {
			in.SetValue(line)
			in.CursorEnd()
		}
		return true
	case "down":
		if line, ok := h.Next(); ok {
			in.SetValue(line)
			in.CursorEnd()
		} else {
			in.SetValue("")
		}
		return true
	}
	return false
}
