package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toasty/internal/model"
)

// PlainFormatter formats records as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter. An invalid template
// is ignored in favour of the default layout.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes records as plain text.
func (f *PlainFormatter) Format(w io.Writer, records []model.Record) error {
	for i := range records {
		if err := f.formatRecord(w, i+1, &records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatRecord(w io.Writer, index int, r *model.Record) error {
	if f.template != nil {
		if err := f.template.Execute(w, newTemplateData(index, r)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}

	if f.opts.ShowStyle && r.Style != "" {
		fmt.Fprintf(&sb, "<%s> ", r.Style)
	}

	sb.WriteString(sanitizeText(r.Text, f.opts.TextMaxLen))

	fmt.Fprintf(&sb, " [%s]", r.Duration)

	if f.opts.ShowTime && r.Timestamp > 0 {
		fmt.Fprintf(&sb, " (%s)", humanize.Time(r.TimestampTime()))
	}

	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
