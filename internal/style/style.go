// Package style describes how a toast looks and where it is placed.
//
// A Style supplies two independent groups of fields: Appearance (colours,
// padding, layout template) and Placement (gravity, offsets, margins).
// Located wraps another Style and overrides only its Placement, so
// repositioning a toast never changes how it looks.
package style

import (
	"fmt"
	"strings"
)

// Gravity is the screen anchor a toast is placed against.
type Gravity string

const (
	GravityTopLeft      Gravity = "top-left"
	GravityTopCenter    Gravity = "top-center"
	GravityTopRight     Gravity = "top-right"
	GravityCenter       Gravity = "center"
	GravityBottomLeft   Gravity = "bottom-left"
	GravityBottomCenter Gravity = "bottom-center"
	GravityBottomRight  Gravity = "bottom-right"
)

// ValidGravities returns all valid gravity values.
func ValidGravities() []Gravity {
	return []Gravity{
		GravityTopLeft,
		GravityTopCenter,
		GravityTopRight,
		GravityCenter,
		GravityBottomLeft,
		GravityBottomCenter,
		GravityBottomRight,
	}
}

// ParseGravity converts a configuration string to a Gravity.
func ParseGravity(s string) (Gravity, error) {
	g := Gravity(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidGravities() {
		if g == valid {
			return g, nil
		}
	}
	return "", fmt.Errorf("invalid gravity %q, must be one of: %v", s, ValidGravities())
}

// IsBottom returns true if the gravity anchors to the bottom of the screen.
func (g Gravity) IsBottom() bool {
	switch g {
	case GravityBottomLeft, GravityBottomCenter, GravityBottomRight:
		return true
	default:
		return false
	}
}

// IsTop returns true if the gravity anchors to the top of the screen.
func (g Gravity) IsTop() bool {
	switch g {
	case GravityTopLeft, GravityTopCenter, GravityTopRight:
		return true
	default:
		return false
	}
}

// Horizontal returns "left", "center" or "right".
func (g Gravity) Horizontal() string {
	switch g {
	case GravityTopLeft, GravityBottomLeft:
		return "left"
	case GravityTopRight, GravityBottomRight:
		return "right"
	default:
		return "center"
	}
}

// Placement holds the positional fields of a style.
type Placement struct {
	Gravity          Gravity
	XOffset          int     // Pixels from the anchor
	YOffset          int     // Pixels from the anchor
	HorizontalMargin float64 // Fraction of screen width, 0.0-1.0
	VerticalMargin   float64 // Fraction of screen height, 0.0-1.0
}

// Appearance holds every non-positional field of a style.
type Appearance struct {
	Layout       string // Layout template name
	Background   string // #RRGGBB, empty = presenter default
	Foreground   string
	Border       string
	CornerRadius int
	PaddingX     int
	PaddingY     int
	MaxWidth     int // Columns/pixels, 0 = unlimited
	TextSize     float64
}

// Style supplies the appearance and placement of a toast.
type Style interface {
	// Name identifies the style in logs and history.
	Name() string
	Appearance() Appearance
	Placement() Placement
}

// Preset is a fixed style with its own appearance and placement.
type Preset struct {
	name       string
	appearance Appearance
	placement  Placement
}

// NewPreset creates a named style from explicit fields.
func NewPreset(name string, appearance Appearance, placement Placement) *Preset {
	return &Preset{name: name, appearance: appearance, placement: placement}
}

func (p *Preset) Name() string           { return p.name }
func (p *Preset) Appearance() Appearance { return p.appearance }
func (p *Preset) Placement() Placement   { return p.placement }

// DefaultPlacement is where built-in styles put a toast.
var DefaultPlacement = Placement{
	Gravity: GravityBottomCenter,
	YOffset: 64,
}

// Dark returns the built-in dark style.
func Dark() *Preset {
	return NewPreset("dark", Appearance{
		Layout:       "default",
		Background:   "#222222",
		Foreground:   "#EEEEEE",
		Border:       "#444444",
		CornerRadius: 8,
		PaddingX:     2,
		PaddingY:     0,
		MaxWidth:     60,
		TextSize:     14,
	}, DefaultPlacement)
}

// Light returns the built-in light style.
func Light() *Preset {
	return NewPreset("light", Appearance{
		Layout:       "default",
		Background:   "#EAEAEA",
		Foreground:   "#222222",
		Border:       "#BBBBBB",
		CornerRadius: 8,
		PaddingX:     2,
		PaddingY:     0,
		MaxWidth:     60,
		TextSize:     14,
	}, DefaultPlacement)
}

// ByName returns a built-in style by name.
func ByName(name string) (Style, bool) {
	switch strings.ToLower(name) {
	case "", "dark", "black":
		return Dark(), true
	case "light", "white":
		return Light(), true
	default:
		return nil, false
	}
}

// Names lists the built-in style names.
func Names() []string {
	return []string{"dark", "light"}
}
