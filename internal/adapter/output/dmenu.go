package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toasty/internal/model"
)

// DmenuFormatter formats records for dmenu/rofi/fuzzel, one per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes records in dmenu format.
func (f *DmenuFormatter) Format(w io.Writer, records []model.Record) error {
	for i := range records {
		line := f.formatLine(i+1, &records[i])
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine renders "index | time | style | text". A template that fails to
// execute falls back to the default layout.
func (f *DmenuFormatter) formatLine(index int, r *model.Record) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, r)); err == nil {
			return strings.ReplaceAll(buf.String(), "\n", " ")
		}
	}

	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	if f.opts.ShowTime {
		parts = append(parts, r.RelativeTime())
	}

	if f.opts.ShowStyle && r.Style != "" {
		parts = append(parts, r.Style)
	}

	parts = append(parts, sanitizeText(r.Text, f.opts.TextMaxLen))

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Record       *model.Record
	RelativeTime string
	Humanized    string
}

func newTemplateData(index int, r *model.Record) templateData {
	return templateData{
		Index:        index,
		Record:       r,
		RelativeTime: r.RelativeTime(),
		Humanized:    humanize.Time(r.TimestampTime()),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": model.Truncate,
		"reltime": func(ts int64) string {
			r := model.Record{Timestamp: ts}
			return r.RelativeTime()
		},
		"humanize": func(ts int64) string {
			return humanize.Time(time.Unix(ts, 0))
		},
		"durationIcon": func(d model.Duration) string {
			if d == model.DurationLong {
				return "L"
			}
			return "S"
		},
	}
}

// sanitizeText flattens newlines and truncates to maxLen runes.
func sanitizeText(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	return model.Truncate(strings.TrimSpace(text), maxLen)
}
