package model

import (
	"fmt"
	"time"

	"github.com/jmylchreest/toasty/internal/style"
)

// Record is the persisted form of a dispatched toast.
type Record struct {
	ID        string        `json:"id" yaml:"id"`
	Text      string        `json:"text" yaml:"text"`
	DelayMS   int64         `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
	Duration  Duration      `json:"duration" yaml:"duration"`
	Style     string        `json:"style,omitempty" yaml:"style,omitempty"`
	Gravity   style.Gravity `json:"gravity,omitempty" yaml:"gravity,omitempty"`
	Timestamp int64         `json:"timestamp" yaml:"timestamp"`
}

// NewRecord converts a request into a history record. An unset duration is
// recorded as the duration the toast will get once resolved.
func NewRecord(r *Request) Record {
	rec := Record{
		ID:        r.ID,
		Text:      r.Text,
		DelayMS:   r.Delay.Milliseconds(),
		Duration:  r.Duration,
		Style:     r.StyleName(),
		Timestamp: r.CreatedAt.Unix(),
	}
	if rec.Duration == DurationUnset {
		rec.Duration = InferDuration(r.Text)
	}
	if r.Style != nil {
		rec.Gravity = r.Style.Placement().Gravity
	}
	if rec.Timestamp <= 0 {
		rec.Timestamp = time.Now().Unix()
	}
	return rec
}

// TimestampTime returns the timestamp as a time.Time.
func (r *Record) TimestampTime() time.Time {
	return time.Unix(r.Timestamp, 0)
}

// RelativeTime returns a compact age such as "5m", "3h", "2d" or "2w".
// Records without a timestamp are "unknown"; anything under a minute old,
// including clock skew into the future, is "now".
func (r *Record) RelativeTime() string {
	if r.Timestamp == 0 {
		return "unknown"
	}

	d := time.Since(r.TimestampTime())
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(d.Hours()/24/7))
	}
}

// TextTruncated returns the text cut to maxLen runes.
func (r *Record) TextTruncated(maxLen int) string {
	return Truncate(r.Text, maxLen)
}

// Truncate cuts s to maxLen runes, ending in "..." when there is room.
// A maxLen of 0 or less means no limit.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
