// Package printtemplate registers the print templates a company can
// select for its work orders.
package printtemplate

// Theme holds the accent palette of one print template. The layout is
// shared; only the palette differs between templates.
type Theme struct {
	Name        string
	DisplayName string
	AccentColor string
	AccentText  string
	TableHeader string
}

const Default = "yellow"

var themes = map[string]Theme{
	"yellow": {
		Name:        "yellow",
		DisplayName: "Galben",
		AccentColor: "#f2c200",
		AccentText:  "#000000",
		TableHeader: "#2d79ff",
	},
	"blue": {
		Name:        "blue",
		DisplayName: "Albastru",
		AccentColor: "#2d79ff",
		AccentText:  "#ffffff",
		TableHeader: "#1a4fb0",
	},
	"black": {
		Name:        "black",
		DisplayName: "Negru",
		AccentColor: "#222222",
		AccentText:  "#ffffff",
		TableHeader: "#444444",
	},
}

// Known reports whether the template name is registered.
func Known(name string) bool {
	_, ok := themes[name]
	return ok
}

// Lookup returns the theme for the name, falling back to the default
// for unknown or empty names.
func Lookup(name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes[Default]
}

// Names lists the registered template names in a stable order.
func Names() []string {
	return []string{"yellow", "blue", "black"}
}
