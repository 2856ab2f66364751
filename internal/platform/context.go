// Package platform defines the process-level services the toaster depends on.
package platform

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// ResourceID identifies a string in the process's resource table.
type ResourceID int

// String returns the decimal form of the id.
func (id ResourceID) String() string {
	return strconv.Itoa(int(id))
}

// Context is the process handle a toaster is initialised with.
type Context interface {
	// ResolveText looks up a resource string. The bool is false if the id is
	// not in the table.
	ResolveText(id ResourceID) (string, bool)

	// IsDebuggable reports whether the process runs in debug mode.
	IsDebuggable() bool
}

// Static is a Context backed by an in-memory string table.
type Static struct {
	mu         sync.RWMutex
	strings    map[ResourceID]string
	debuggable atomic.Bool
}

// NewStatic creates a Static context. The map is copied.
func NewStatic(table map[ResourceID]string, debuggable bool) *Static {
	s := &Static{strings: make(map[ResourceID]string, len(table))}
	for id, text := range table {
		s.strings[id] = text
	}
	s.debuggable.Store(debuggable)
	return s
}

// ResolveText implements Context.
func (s *Static) ResolveText(id ResourceID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.strings[id]
	return text, ok
}

// IsDebuggable implements Context.
func (s *Static) IsDebuggable() bool {
	return s.debuggable.Load()
}

// SetDebuggable changes the debuggable attribute.
func (s *Static) SetDebuggable(debuggable bool) {
	s.debuggable.Store(debuggable)
}

// Put adds or replaces a resource string.
func (s *Static) Put(id ResourceID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strings[id] = text
}

// Len returns the number of resource strings.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.strings)
}
