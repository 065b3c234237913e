package parser

import (
	"reflect"
	"testing"

	"github.com/nathoo/wardround/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "status",
			input: "status",
			want:  types.Intent{Verb: "status"},
		},
		{
			name:  "wait without seconds",
			input: "wait",
			want:  types.Intent{Verb: "wait"},
		},
		{
			name:  "help alias",
			input: "?",
			want:  types.Intent{Verb: "help"},
		},
		{
			name:  "quit alias",
			input: "exit",
			want:  types.Intent{Verb: "quit"},
		},

		// Triage
		{
			name:  "triage",
			input: "triage 2 red",
			want:  types.Intent{Verb: "triage", Args: []string{"2", "red"}},
		},
		{
			name:  "tag with fillers",
			input: "Tag Patient #2 as RED",
			want:  types.Intent{Verb: "triage", Args: []string{"2", "red"}},
		},
		{
			name:  "short alias",
			input: "t 1 g",
			want:  types.Intent{Verb: "triage", Args: []string{"1", "g"}},
		},

		// Assign
		{
			name:  "assign",
			input: "assign 3 bed",
			want:  types.Intent{Verb: "assign", Args: []string{"3", "bed"}},
		},
		{
			name:  "give to patient",
			input: "give blood to 3",
			want:  types.Intent{Verb: "assign", Args: []string{"3", "blood"}},
		},
		{
			name:  "send a nurse to patient",
			input: "send a nurse to patient 1",
			want:  types.Intent{Verb: "assign", Args: []string{"1", "nurse"}},
		},

		// Wait
		{
			name:  "wait seconds",
			input: "z 30",
			want:  types.Intent{Verb: "wait", Args: []string{"30"}},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Args: []string{"wildly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
