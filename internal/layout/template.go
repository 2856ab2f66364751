// Package layout parses the XML templates that describe how a toast is laid
// out by renderers that draw it themselves.
package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no template exists under a name.
var ErrNotFound = errors.New("layout template not found")

// DefaultName is the layout used when a style names none.
const DefaultName = "default"

// ElementType identifies the type of layout element.
type ElementType string

const (
	ElementTypeText     ElementType = "text"
	ElementTypeIcon     ElementType = "icon"
	ElementTypeTime     ElementType = "time"
	ElementTypeDuration ElementType = "duration"
	ElementTypeStyle    ElementType = "style"
	ElementTypeDivider  ElementType = "divider"
	ElementTypeBox      ElementType = "box"
)

// ValidElements lists all recognized element types.
var ValidElements = map[string]ElementType{
	"text":     ElementTypeText,
	"icon":     ElementTypeIcon,
	"time":     ElementTypeTime,
	"duration": ElementTypeDuration,
	"style":    ElementTypeStyle,
	"divider":  ElementTypeDivider,
	"box":      ElementTypeBox,
}

// Layout is a parsed template ready for rendering.
type Layout struct {
	Name string
	// Width bounds in cells; 0 means the style decides.
	MinWidth int
	MaxWidth int
	Elements []Element
}

// Element is a single node in a layout.
type Element struct {
	Type       ElementType
	Attributes map[string]string
	Children   []Element
}

// Attr returns the named attribute or def when absent.
func (e Element) Attr(name, def string) string {
	if v, ok := e.Attributes[name]; ok && v != "" {
		return v
	}
	return def
}

// Vertical reports whether a box stacks its children.
func (e Element) Vertical() bool {
	return e.Attr("orientation", "horizontal") == "vertical"
}

// Parse parses an XML layout template rooted at <toast>.
func Parse(r io.Reader) (*Layout, error) {
	decoder := xml.NewDecoder(r)

	var layout Layout
	found := false
	for !found {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "toast" {
			return nil, fmt.Errorf("unexpected root element %q, want toast", se.Name.Local)
		}
		found = true

		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				layout.Name = attr.Value
			case "min-width":
				if v, err := parseCells(attr.Value); err == nil {
					layout.MinWidth = v
				}
			case "max-width":
				if v, err := parseCells(attr.Value); err == nil {
					layout.MaxWidth = v
				}
			}
		}

		elements, err := parseElements(decoder)
		if err != nil {
			return nil, err
		}
		layout.Elements = elements
	}

	if !found {
		return nil, errors.New("template has no toast element")
	}
	return &layout, nil
}

// ParseString parses a template from a string.
func ParseString(s string) (*Layout, error) {
	return Parse(strings.NewReader(s))
}

// parseCells parses a width such as "40" or "40ch".
func parseCells(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "ch")
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func parseElements(decoder *xml.Decoder) ([]Element, error) {
	var elements []Element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			elemType, ok := ValidElements[name]
			if !ok {
				return nil, fmt.Errorf("unknown element type: %s", name)
			}

			elem := Element{
				Type:       elemType,
				Attributes: make(map[string]string, len(t.Attr)),
			}
			for _, attr := range t.Attr {
				elem.Attributes[attr.Name.Local] = attr.Value
			}

			children, err := parseElements(decoder)
			if err != nil {
				return nil, err
			}
			if len(children) > 0 && elemType != ElementTypeBox {
				return nil, fmt.Errorf("element %s cannot have children", name)
			}
			elem.Children = children

			elements = append(elements, elem)

		case xml.EndElement:
			return elements, nil
		}
	}

	return elements, nil
}

// LoadFile loads a template from a file.
func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Loader resolves layout names, preferring a user directory over the
// embedded templates.
type Loader struct {
	dir string
}

// NewLoader creates a loader. dir may be empty.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load returns the layout called name. An empty name loads the default.
func (l *Loader) Load(name string) (*Layout, error) {
	if name == "" {
		name = DefaultName
	}

	if l.dir != "" {
		path := filepath.Join(l.dir, name+".xml")
		if _, err := os.Stat(path); err == nil {
			layout, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			if layout.Name == "" {
				layout.Name = name
			}
			return layout, nil
		}
	}

	if layout, ok := Embedded(name); ok {
		return layout, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Names lists the embedded layouts plus any in the user directory.
func (l *Loader) Names() []string {
	names := EmbeddedNames()
	if l.dir == "" {
		return names
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return names
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		n := strings.TrimSuffix(entry.Name(), ".xml")
		if !seen[n] {
			names = append(names, n)
		}
	}
	return names
}
