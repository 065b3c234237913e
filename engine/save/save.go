// Package save implements JSON serialization of an in-progress case session.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/wardround/engine"
	"github.com/nathoo/wardround/engine/state"
	"github.com/nathoo/wardround/types"
)

// FormatVersion is written into every save and checked on load.
const FormatVersion = "1"

// ErrCaseMismatch is returned when a save is applied to a session on a
// different case.
var ErrCaseMismatch = errors.New("save belongs to a different case")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version   string             `json:"version"`
	SessionID string             `json:"session_id"`
	Case      string             `json:"case"`
	Node      string             `json:"node"`
	State     types.PatientState `json:"state"`
}

// Save serializes a session to JSON bytes. Each save gets a fresh,
// time-ordered session ID.
func Save(e *engine.Engine) ([]byte, error) {
	data := SaveData{
		Version:   FormatVersion,
		SessionID: uuid.Must(uuid.NewV7()).String(),
		Case:      e.Case.ID,
		Node:      e.NodeID(),
		State:     *e.State(),
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported save version %q", sd.Version)
	}
	// Ensure collections are never nil after load.
	sd.State = *state.Clone(sd.State)
	return &sd, nil
}

// Apply restores loaded save data onto a session.
func Apply(e *engine.Engine, sd *SaveData) error {
	if sd.Case != e.Case.ID {
		return fmt.Errorf("%w: %q, playing %q", ErrCaseMismatch, sd.Case, e.Case.ID)
	}
	e.Restore(sd.Node, sd.State)
	return nil
}

// ErrBadSlot is returned for a slot name that would leave the save directory.
var ErrBadSlot = errors.New("invalid save name")

// Path returns the file for a named save slot in dir. An empty name
// means the slot named after the case. Names must be a single plain
// path element.
func Path(dir, name, caseID string) (string, error) {
	if name == "" {
		name = caseID
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadSlot, name)
	}
	return filepath.Join(dir, name+".json"), nil
}

// WriteFile saves the session to the named slot in dir, creating dir if
// needed, and returns the path written.
func WriteFile(e *engine.Engine, dir, name string) (string, error) {
	path, err := Path(dir, name, e.Case.ID)
	if err != nil {
		return "", err
	}
	data, err := Save(e)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile restores the session from the named slot in dir and returns
// the path read.
func ReadFile(e *engine.Engine, dir, name string) (string, *SaveData, error) {
	path, err := Path(dir, name, e.Case.ID)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	sd, err := Load(data)
	if err != nil {
		return "", nil, err
	}
	if err := Apply(e, sd); err != nil {
		return "", nil, err
	}
	return path, sd, nil
}
