package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// DnDTransition records details about a DnD state change.
type DnDTransition struct {
	Reason    string `json:"reason"`           // e.g. "dnd on", "dnd toggle"
	Source    string `json:"source,omitempty"` // e.g. "cli"
	Timestamp int64  `json:"timestamp"`
}

// SharedState contains state shared between toasty processes.
// This is persisted to ~/.local/share/toasty/state.json
type SharedState struct {
	DnDEnabled        bool           `json:"dnd_enabled"`
	DnDEnabledAt      int64          `json:"dnd_enabled_at,omitempty"`
	DnDLastTransition *DnDTransition `json:"dnd_last_transition,omitempty"`

	SchemaVersion int `json:"schema_version"`
}

// DefaultSharedState returns a new SharedState with default values.
func DefaultSharedState() *SharedState {
	return &SharedState{SchemaVersion: CurrentSchemaVersion}
}

// SetDnD updates the Do Not Disturb state and records the transition.
func (s *SharedState) SetDnD(enabled bool, reason, source string) {
	s.DnDEnabled = enabled
	now := time.Now().Unix()

	if enabled {
		s.DnDEnabledAt = now
	} else {
		s.DnDEnabledAt = 0
	}

	s.DnDLastTransition = &DnDTransition{
		Reason:    reason,
		Source:    source,
		Timestamp: now,
	}
}

// ToggleDnD flips the Do Not Disturb state and returns the new value.
func (s *SharedState) ToggleDnD(reason, source string) bool {
	s.SetDnD(!s.DnDEnabled, reason, source)
	return s.DnDEnabled
}

// EnabledSince returns when DnD was switched on, or the zero time.
func (s *SharedState) EnabledSince() time.Time {
	if !s.DnDEnabled || s.DnDEnabledAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.DnDEnabledAt, 0)
}

// StateFile reads and writes a SharedState file.
type StateFile struct {
	mu   sync.RWMutex
	path string
}

// NewStateFile creates a StateFile for path.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Load reads the state. A missing file yields the default state; a corrupt
// file is an error so callers can decide how to degrade.
func (f *StateFile) Load() (*SharedState, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSharedState(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state SharedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	return &state, nil
}

// Save writes the state atomically.
func (f *StateFile) Save(state *SharedState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return os.Rename(tmpPath, f.path)
}

// Update loads the state, applies fn and saves it.
func (f *StateFile) Update(fn func(s *SharedState)) (*SharedState, error) {
	state, err := f.Load()
	if err != nil {
		state = DefaultSharedState()
	}
	fn(state)
	if err := f.Save(state); err != nil {
		return nil, err
	}
	return state, nil
}

// DnDEnabled reports the stored DnD state. It satisfies intercept.DnDSource.
func (f *StateFile) DnDEnabled() (bool, error) {
	state, err := f.Load()
	if err != nil {
		return false, err
	}
	return state.DnDEnabled, nil
}
