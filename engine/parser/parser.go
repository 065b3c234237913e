// Package parser converts incident console commands into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/wardround/types"
)

var verbAliases = map[string]string{
	// Triage
	"t":      "triage",
	"tag":    "triage",
	"retag":  "triage",
	"sort":   "triage",
	"triage": "triage",

	// Resource allocation
	"a":        "assign",
	"give":     "assign",
	"allocate": "assign",
	"send":     "assign",

	// Clock
	"w":     "wait",
	"z":     "wait",
	"tick":  "wait",
	"pass":  "wait",
	"sleep": "wait",

	// Board
	"s":      "status",
	"board":  "status",
	"look":   "status",
	"l":      "status",
	"survey": "status",

	// Meta
	"h":    "help",
	"?":    "help",
	"q":    "quit",
	"exit": "quit",
}

var prepositions = map[string]bool{
	"to": true, "for": true, "on": true,
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"as": true, "patient": true, "#": true,
}

// Parse converts a raw command string into an Intent.
//
//	triage 2 red         -> {triage [2 red]}
//	tag patient 2 as red -> {triage [2 red]}
//	give blood to 3      -> {assign [3 blood]}
//	assign 3 bed         -> {assign [3 bed]}
//	wait 30              -> {wait [30]}
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	rest := stripFillers(words[1:])

	// "give blood to 3" names the patient last; put it first.
	object, target := splitOnPreposition(rest)
	if len(target) > 0 {
		rest = append(append([]string{}, target...), object...)
	}

	for i, w := range rest {
		rest[i] = strings.TrimPrefix(w, "#")
	}

	if len(rest) == 0 {
		return types.Intent{Verb: verb}
	}
	return types.Intent{Verb: verb, Args: rest}
}

// stripFillers removes articles and filler words from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target []string) {
	for i, w := range words {
		if prepositions[w] {
			return words[:i], words[i+1:]
		}
	}
	return words, nil
}
