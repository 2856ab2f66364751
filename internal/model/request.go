// Package model defines the core data structures for toasty.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/toasty/internal/style"
)

// LongTextThreshold is the text length (in UTF-16 code units) above which an
// unset duration resolves to DurationLong.
const LongTextThreshold = 20

// Duration is how long a toast stays visible.
type Duration int

const (
	// DurationUnset means the duration is inferred from the text at resolution.
	DurationUnset Duration = iota
	DurationShort
	DurationLong
)

// DurationNames maps durations to human-readable names.
var DurationNames = map[Duration]string{
	DurationUnset: "unset",
	DurationShort: "short",
	DurationLong:  "long",
}

// String returns the duration name.
func (d Duration) String() string {
	if name, ok := DurationNames[d]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDuration parses "short", "long" or "unset" (empty is unset).
func ParseDuration(s string) (Duration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset", "auto":
		return DurationUnset, nil
	case "short":
		return DurationShort, nil
	case "long":
		return DurationLong, nil
	default:
		return DurationUnset, fmt.Errorf("invalid duration %q, must be short, long or unset", s)
	}
}

// InferDuration picks a duration from the text length.
func InferDuration(text string) Duration {
	if TextLength(text) > LongTextThreshold {
		return DurationLong
	}
	return DurationShort
}

// TextLength returns the length of text in UTF-16 code units.
func TextLength(text string) int {
	return len(utf16.Encode([]rune(text)))
}

// Displayer shows a finalized request. Display strategies satisfy it.
type Displayer interface {
	Show(r *Request) error
}

// Gate decides whether a request is suppressed. Interceptors satisfy it.
type Gate interface {
	Intercept(r *Request) bool
}

// ErrUnresolved is returned when an unresolved request reaches a consumer
// that requires a resolved one.
var ErrUnresolved = errors.New("request is not resolved")

// Request describes one toast. Strategy, Style and Interceptor are optional
// overrides; the toaster fills the missing ones from its current defaults and
// then treats the request as read-only.
type Request struct {
	ID        string
	Text      string
	Delay     time.Duration
	Duration  Duration
	CreatedAt time.Time

	Strategy    Displayer
	Style       style.Style
	Interceptor Gate
}

// NewRequest creates a request with a fresh ULID.
func NewRequest(text string) *Request {
	now := time.Now()
	r := &Request{
		Text:      text,
		Duration:  DurationUnset,
		CreatedAt: now,
	}
	if id, err := ulid.New(ulid.Timestamp(now), rand.Reader); err == nil {
		r.ID = id.String()
	}
	return r
}

// Clone returns a shallow copy; overrides are shared, not copied.
func (r *Request) Clone() *Request {
	clone := *r
	return &clone
}

// Empty returns true if there is nothing to show.
func (r *Request) Empty() bool {
	return r == nil || r.Text == ""
}

// Resolved returns true once every defaultable field has been filled.
func (r *Request) Resolved() bool {
	return r != nil &&
		r.Strategy != nil &&
		r.Style != nil &&
		r.Interceptor != nil &&
		r.Duration != DurationUnset
}

// StyleName returns the style name, or "" before resolution.
func (r *Request) StyleName() string {
	if r.Style == nil {
		return ""
	}
	return r.Style.Name()
}
