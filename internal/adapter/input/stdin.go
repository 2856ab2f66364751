package input

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
)

// LineSource reads one toast per line. A line is either plain text or a JSON
// object such as {"text":"done","delay_ms":500,"duration":"long"}.
type LineSource struct {
	reader io.Reader
}

// NewStdinSource creates a LineSource reading from os.Stdin.
func NewStdinSource() *LineSource {
	return &LineSource{reader: os.Stdin}
}

// NewLineSource creates a LineSource with a custom reader.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{reader: r}
}

// Name implements Source.
func (s *LineSource) Name() string {
	return "stdin"
}

// Run implements Source. Blank lines are skipped.
func (s *LineSource) Run(ctx context.Context, handler Handler) error {
	scanner := bufio.NewScanner(s.reader)
	const maxSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		r, err := ParseLine(line)
		if err != nil {
			return err
		}
		if err := handler(r); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &AdapterError{Source: s.Name(), Message: "failed to read input", Err: err}
	}
	return nil
}

// lineEntry is the JSON form of a line.
type lineEntry struct {
	Text     string `json:"text"`
	DelayMS  int64  `json:"delay_ms,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// ParseLine converts a line into a request. Lines that start with "{" must
// be valid JSON.
func ParseLine(line []byte) (*model.Request, error) {
	if len(line) == 0 || line[0] != '{' {
		return model.NewRequest(sanitizeString(string(line))), nil
	}

	var entry lineEntry
	if err := json.Unmarshal(line, &entry); err != nil {
		return nil, &AdapterError{Source: "stdin", Message: "failed to parse JSON line", Err: err}
	}

	duration, err := model.ParseDuration(entry.Duration)
	if err != nil {
		return nil, &AdapterError{Source: "stdin", Message: "invalid duration", Err: err}
	}

	r := model.NewRequest(sanitizeString(entry.Text))
	r.Duration = duration
	if entry.DelayMS > 0 {
		r.Delay = time.Duration(entry.DelayMS) * time.Millisecond
	}
	return r, nil
}

// sanitizeString strips control characters other than tab.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return -1
		}
		if r == 0x7f {
			return -1
		}
		return r
	}, s)
}
