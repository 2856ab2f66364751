// Package output provides output formatters for toast history.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/toasty/internal/model"
)

// Formatter formats history records for output.
type Formatter interface {
	// Format writes formatted records to the writer.
	Format(w io.Writer, records []model.Record) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatIDs   FormatType = "ids"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatYAML  FormatType = "yaml"
)

// ValidFormats lists the supported format names.
func ValidFormats() []FormatType {
	return []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatYAML, FormatIDs}
}

// ParseFormat parses a format name. Empty means plain.
func ParseFormat(s string) (FormatType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatPlain, nil
	}
	for _, f := range ValidFormats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q, must be one of: plain, dmenu, json, yaml, ids", s)
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatYAML:
		return NewYAMLFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template   string // Custom template for dmenu/plain format
	ShowIndex  bool   // Show 1-based index prefix
	ShowTime   bool   // Show relative time
	ShowStyle  bool   // Show style name
	TextMaxLen int    // Maximum text length (0 = unlimited)
	Separator  string // Field separator for dmenu format
}

// DefaultFormatterOptions returns sensible defaults.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:  true,
		ShowTime:   true,
		ShowStyle:  true,
		TextMaxLen: 80,
		Separator:  " | ",
	}
}

// FormatField outputs a specific field from a record.
func FormatField(r *model.Record, field string) string {
	switch strings.ToLower(field) {
	case "id":
		return r.ID
	case "style":
		return r.Style
	case "duration":
		return r.Duration.String()
	case "gravity":
		return string(r.Gravity)
	case "delay", "delay_ms":
		return fmt.Sprintf("%d", r.DelayMS)
	case "timestamp", "time":
		return fmt.Sprintf("%d", r.Timestamp)
	default:
		return r.Text
	}
}
