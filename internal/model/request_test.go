package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/style"
)

type nopDisplayer struct{}

func (nopDisplayer) Show(*Request) error { return nil }

type nopGate struct{}

func (nopGate) Intercept(*Request) bool { return false }

func TestNewRequest(t *testing.T) {
	r := NewRequest("hello")

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "hello", r.Text)
	assert.Equal(t, DurationUnset, r.Duration)
	assert.Zero(t, r.Delay)
	assert.False(t, r.CreatedAt.IsZero())
	assert.False(t, r.Resolved())

	other := NewRequest("hello")
	assert.NotEqual(t, r.ID, other.ID)
}

func TestInferDuration(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Duration
	}{
		{"short text", "hello", DurationShort},
		{"exactly threshold", strings.Repeat("a", 20), DurationShort},
		{"one over threshold", strings.Repeat("a", 21), DurationLong},
		{"multibyte counted per code unit", strings.Repeat("é", 20), DurationShort},
		{"surrogate pairs count twice", strings.Repeat("😀", 11), DurationLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferDuration(tt.text))
		})
	}
}

func TestTextLength(t *testing.T) {
	assert.Equal(t, 0, TextLength(""))
	assert.Equal(t, 5, TextLength("hello"))
	assert.Equal(t, 2, TextLength("😀"))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected Duration
		wantErr  bool
	}{
		{"", DurationUnset, false},
		{"auto", DurationUnset, false},
		{"short", DurationShort, false},
		{"LONG", DurationLong, false},
		{"forever", DurationUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDurationString(t *testing.T) {
	assert.Equal(t, "unset", DurationUnset.String())
	assert.Equal(t, "short", DurationShort.String())
	assert.Equal(t, "long", DurationLong.String())
	assert.Equal(t, "unknown", Duration(42).String())
}

func TestRequest_Resolved(t *testing.T) {
	r := NewRequest("x")
	r.Strategy = nopDisplayer{}
	r.Interceptor = nopGate{}
	r.Style = style.Dark()
	assert.False(t, r.Resolved(), "duration still unset")

	r.Duration = DurationShort
	assert.True(t, r.Resolved())

	var nilReq *Request
	assert.False(t, nilReq.Resolved())
	assert.True(t, nilReq.Empty())
}

func TestRequest_Clone(t *testing.T) {
	r := NewRequest("x")
	r.Style = style.Dark()

	clone := r.Clone()
	clone.Text = "y"
	clone.Duration = DurationLong

	assert.Equal(t, "x", r.Text)
	assert.Equal(t, DurationUnset, r.Duration)
	assert.Equal(t, r.Style, clone.Style)
}

func TestNewRecord(t *testing.T) {
	r := NewRequest(strings.Repeat("b", 30))
	r.Delay = 1500 * time.Millisecond
	r.Style = style.WithPlacement(style.Light(), style.Placement{Gravity: style.GravityTopLeft})

	rec := NewRecord(r)
	assert.Equal(t, r.ID, rec.ID)
	assert.Equal(t, int64(1500), rec.DelayMS)
	assert.Equal(t, DurationLong, rec.Duration)
	assert.Equal(t, "light", rec.Style)
	assert.Equal(t, style.GravityTopLeft, rec.Gravity)
	assert.Greater(t, rec.Timestamp, int64(0))
}

func TestRecord_JSONDuration(t *testing.T) {
	rec := Record{ID: "a", Text: "hi", Duration: DurationShort, Timestamp: 1}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"duration":"short"`)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, DurationShort, decoded.Duration)
}

func TestRecord_RelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"no timestamp", 0, "unknown"},
		{"seconds ago", now.Add(-10 * time.Second).Unix(), "now"},
		{"future", now.Add(time.Hour).Unix(), "now"},
		{"minutes", now.Add(-5*time.Minute - time.Second).Unix(), "5m"},
		{"hours", now.Add(-90 * time.Minute).Unix(), "1h"},
		{"days", now.Add(-50 * time.Hour).Unix(), "2d"},
		{"weeks", now.Add(-15 * 24 * time.Hour).Unix(), "2w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{Timestamp: tt.ts}
			assert.Equal(t, tt.want, rec.RelativeTime())
		})
	}
}

func TestRecord_TextTruncated(t *testing.T) {
	rec := Record{Text: "hello world"}
	assert.Equal(t, "hello world", rec.TextTruncated(20))
	assert.Equal(t, "hello...", rec.TextTruncated(8))
	assert.Equal(t, "hel", rec.TextTruncated(3))
	assert.Equal(t, "hello world", rec.TextTruncated(0))

	rec.Text = "héllo wörld"
	assert.Equal(t, "héllo...", rec.TextTruncated(8))
}
