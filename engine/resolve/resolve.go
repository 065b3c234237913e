// Package resolve maps free-text player input to choices and patients.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/wardround/types"
)

// AmbiguityError indicates multiple candidates matched the input.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched the input.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no option matches %q", e.Name)
}

// Choice resolves input against the offered choices. It accepts, in order:
// a 1-based number, an exact choice ID, or a case-insensitive prefix of
// the ID or text that matches exactly one choice.
func Choice(choices []types.Choice, input string) (types.Choice, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Choice{}, &NotFoundError{Name: input}
	}

	// 1. Number.
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		return types.Choice{}, &NotFoundError{Name: input}
	}

	// 2. Exact ID.
	for _, c := range choices {
		if c.ID == input {
			return c, nil
		}
	}

	// 3. Prefix of ID or text. Spaces match underscores in IDs.
	lower := strings.ToLower(input)
	idForm := strings.ReplaceAll(lower, " ", "_")
	var matches []types.Choice
	for _, c := range choices {
		if strings.HasPrefix(strings.ToLower(c.ID), idForm) ||
			strings.HasPrefix(strings.ToLower(c.Text), lower) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return types.Choice{}, &NotFoundError{Name: input}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return types.Choice{}, &AmbiguityError{Name: input, Candidates: ids}
	}
}

// Patient resolves input to a roster index. It accepts a 1-based number, an
// exact patient ID, or a unique case-insensitive ID prefix.
func Patient(patients []types.MCIPatient, input string) (int, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(patients) {
			return n - 1, nil
		}
		return -1, &NotFoundError{Name: input}
	}

	for i, p := range patients {
		if p.ID == input {
			return i, nil
		}
	}

	lower := strings.ToLower(input)
	var idx []int
	for i, p := range patients {
		if lower != "" && strings.HasPrefix(strings.ToLower(p.ID), lower) {
			idx = append(idx, i)
		}
	}
	switch len(idx) {
	case 0:
		return -1, &NotFoundError{Name: input}
	case 1:
		return idx[0], nil
	default:
		ids := make([]string, len(idx))
		for i, j := range idx {
			ids[i] = patients[j].ID
		}
		return -1, &AmbiguityError{Name: input, Candidates: ids}
	}
}
