package style

// Located repositions a base style. Placement comes from Place; everything
// else is read from Base.
type Located struct {
	Base  Style
	Place Placement
}

// WithPlacement wraps s with a new placement. When s is already a Located,
// its decorator is replaced rather than stacked, so the chain never grows
// past one positioning layer.
func WithPlacement(s Style, p Placement) *Located {
	if l, ok := s.(*Located); ok {
		s = l.Base
	}
	return &Located{Base: s, Place: p}
}

func (l *Located) Name() string           { return l.Base.Name() }
func (l *Located) Appearance() Appearance { return l.Base.Appearance() }
func (l *Located) Placement() Placement   { return l.Place }

// Unwrap returns the innermost non-positioning style.
func Unwrap(s Style) Style {
	for {
		l, ok := s.(*Located)
		if !ok {
			return s
		}
		s = l.Base
	}
}

// Custom renders toasts with a caller-chosen layout template. Only the
// layout is specified; presenters fall back to their defaults for colours.
type Custom struct {
	Layout string
	Place  Placement
}

// NewCustom creates a Custom style that keeps the placement of current.
func NewCustom(layout string, current Style) *Custom {
	c := &Custom{Layout: layout}
	if current != nil {
		c.Place = current.Placement()
	}
	return c
}

func (c *Custom) Name() string           { return "custom:" + c.Layout }
func (c *Custom) Appearance() Appearance { return Appearance{Layout: c.Layout} }
func (c *Custom) Placement() Placement   { return c.Place }
