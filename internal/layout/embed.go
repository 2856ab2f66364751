package layout

import (
	"embed"
	"strings"
)

//go:embed templates/*.xml
var embeddedTemplates embed.FS

// Embedded returns a built-in layout by name, without the .xml extension.
func Embedded(name string) (*Layout, bool) {
	data, err := embeddedTemplates.ReadFile("templates/" + name + ".xml")
	if err != nil {
		return nil, false
	}

	layout, err := ParseString(string(data))
	if err != nil {
		return nil, false
	}
	if layout.Name == "" {
		layout.Name = name
	}
	return layout, true
}

// EmbeddedNames returns the names of all built-in layouts.
func EmbeddedNames() []string {
	entries, err := embeddedTemplates.ReadDir("templates")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".xml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".xml"))
		}
	}
	return names
}
