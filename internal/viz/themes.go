package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the parts of the axon view. Filament is the canvas ink,
// Link the link-count chart and Wall the borders; Grow, Stall and Fault
// color run state and fill levels from healthy to saturated.
type Theme struct {
	Name     string
	Filament lipgloss.Color
	Link     lipgloss.Color
	Wall     lipgloss.Color
	Title    lipgloss.Color
	Text     lipgloss.Color
	Grow     lipgloss.Color
	Stall    lipgloss.Color
	Fault    lipgloss.Color
}

// Themes lists the palettes in cycling order; the first is the default.
var Themes = []Theme{
	{
		Name:     "tubulin",
		Filament: "#7fffd4",
		Link:     "#ff6f61",
		Wall:     "#5f7f8f",
		Title:    "#b0e0e6",
		Text:     "#f0f8ff",
		Grow:     "#66dd88",
		Stall:    "#e8c547",
		Fault:    "#ff4a4a",
	},
	{
		// Two-channel fluorescence: filaments in one dye, crosslinkers in
		// the other.
		Name:     "stain",
		Filament: "#ff3fd2",
		Link:     "#39ff6a",
		Wall:     "#553366",
		Title:    "#ff9ff0",
		Text:     "#ffffff",
		Grow:     "#39ff6a",
		Stall:    "#ffd23f",
		Fault:    "#ff3f3f",
	},
	{
		Name:     "darkfield",
		Filament: "#e6e6e6",
		Link:     "#ffb347",
		Wall:     "#4a4a4a",
		Title:    "#ffffff",
		Text:     "#d0d0d0",
		Grow:     "#9acd32",
		Stall:    "#ffb347",
		Fault:    "#ff6347",
	},
	{
		Name:     "myelin",
		Filament: "#ffe4b5",
		Link:     "#4fc3f7",
		Wall:     "#8d6e63",
		Title:    "#ffcc80",
		Text:     "#fff8e1",
		Grow:     "#aed581",
		Stall:    "#ffb74d",
		Fault:    "#e57373",
	},
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
