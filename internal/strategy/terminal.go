package strategy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/layout"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/style"
)

// DefaultTerminalWidth is used when the terminal width is unknown.
const DefaultTerminalWidth = 80

// TerminalPresenter draws toasts into a terminal using the style's appearance
// and layout template. Gravity picks the horizontal alignment and XOffset
// indents the toast; vertical placement is left to the terminal's scrollback.
type TerminalPresenter struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	layouts  *layout.Loader
	width    int
	logger   *slog.Logger

	mu  sync.Mutex
	seq uint32
}

// NewTerminalPresenter creates a presenter writing to out.
func NewTerminalPresenter(out io.Writer, layouts *layout.Loader, width int, logger *slog.Logger) *TerminalPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	if layouts == nil {
		layouts = layout.NewLoader("")
	}
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	return &TerminalPresenter{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		layouts:  layouts,
		width:    width,
		logger:   logger,
	}
}

// Name implements Presenter.
func (p *TerminalPresenter) Name() string {
	return "terminal"
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(ctx context.Context, r *model.Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	out, err := p.Render(r)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintln(p.out, out); err != nil {
		return 0, fmt.Errorf("failed to write toast: %w", err)
	}
	p.seq++
	return Handle(p.seq), nil
}

// Dismiss implements Presenter. Printed toasts stay in the scrollback.
func (p *TerminalPresenter) Dismiss(context.Context, Handle) error {
	return nil
}

// Render returns the toast as it would be printed.
func (p *TerminalPresenter) Render(r *model.Request) (string, error) {
	var (
		ap    style.Appearance
		place style.Placement
	)
	if r.Style != nil {
		ap = r.Style.Appearance()
		place = r.Style.Placement()
	}

	l, err := p.layouts.Load(ap.Layout)
	if errors.Is(err, layout.ErrNotFound) {
		p.logger.Warn("unknown layout, using default", "layout", ap.Layout)
		l, err = p.layouts.Load(layout.DefaultName)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load layout: %w", err)
	}

	content := p.renderColumn(l.Elements, r)
	box := p.boxStyle(ap)

	maxWidth := minPositive(ap.MaxWidth, l.MaxWidth, p.width)
	if w := lipgloss.Width(content); maxWidth > 0 && w > maxWidth {
		box = box.Width(maxWidth)
	} else if l.MinWidth > 0 && w < l.MinWidth {
		box = box.Width(l.MinWidth)
	}

	block := box.Render(content)
	if place.XOffset > 0 {
		block = p.renderer.NewStyle().MarginLeft(place.XOffset).Render(block)
	}
	return p.align(block, place.Gravity), nil
}

func (p *TerminalPresenter) boxStyle(ap style.Appearance) lipgloss.Style {
	st := p.renderer.NewStyle().Padding(ap.PaddingY, ap.PaddingX)
	if ap.Foreground != "" {
		st = st.Foreground(lipgloss.Color(ap.Foreground))
	}
	if ap.Background != "" {
		st = st.Background(lipgloss.Color(ap.Background))
	}
	if ap.Border != "" {
		border := lipgloss.NormalBorder()
		if ap.CornerRadius > 0 {
			border = lipgloss.RoundedBorder()
		}
		st = st.Border(border).BorderForeground(lipgloss.Color(ap.Border))
	}
	return st
}

func (p *TerminalPresenter) align(block string, g style.Gravity) string {
	pos := lipgloss.Center
	switch g.Horizontal() {
	case "left":
		pos = lipgloss.Left
	case "right":
		pos = lipgloss.Right
	}
	if lipgloss.Width(block) >= p.width {
		return block
	}
	return lipgloss.PlaceHorizontal(p.width, pos, block)
}

// renderColumn stacks elements vertically. Dividers span the widest sibling.
func (p *TerminalPresenter) renderColumn(elements []layout.Element, r *model.Request) string {
	parts := make([]string, len(elements))
	width := 0
	for i, e := range elements {
		if e.Type == layout.ElementTypeDivider {
			continue
		}
		parts[i] = p.renderElement(e, r)
		if w := lipgloss.Width(parts[i]); w > width {
			width = w
		}
	}
	for i, e := range elements {
		if e.Type == layout.ElementTypeDivider {
			parts[i] = divider(e, width)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (p *TerminalPresenter) renderElement(e layout.Element, r *model.Request) string {
	switch e.Type {
	case layout.ElementTypeText:
		return r.Text
	case layout.ElementTypeIcon:
		return e.Attr("glyph", "●")
	case layout.ElementTypeTime:
		return r.CreatedAt.Format(e.Attr("format", "15:04"))
	case layout.ElementTypeDuration:
		return r.Duration.String()
	case layout.ElementTypeStyle:
		return r.StyleName()
	case layout.ElementTypeDivider:
		return divider(e, 0)
	case layout.ElementTypeBox:
		if e.Vertical() {
			return p.renderColumn(e.Children, r)
		}
		parts := make([]string, 0, len(e.Children))
		for _, c := range e.Children {
			if s := p.renderElement(c, r); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, e.Attr("separator", " "))
	default:
		return ""
	}
}

func divider(e layout.Element, width int) string {
	if v, err := strconv.Atoi(e.Attr("width", "")); err == nil && v > 0 {
		width = v
	}
	if width <= 0 {
		width = 1
	}
	return strings.Repeat(e.Attr("char", "─"), width)
}

func minPositive(values ...int) int {
	result := 0
	for _, v := range values {
		if v > 0 && (result == 0 || v < result) {
			result = v
		}
	}
	return result
}
