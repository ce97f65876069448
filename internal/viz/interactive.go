package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Opener builds the live model for a named preset.
type Opener func(preset string) (Model, error)

// Picker lists the presets and hands over to a live Model once one is
// chosen.
type Picker struct {
	presets []string
	info    map[string]string
	cursor  int
	open    Opener
	live    *Model
	err     error
	st      styles
}

// NewPicker creates a picker over presets. info holds an optional one-line
// description per preset.
func NewPicker(presets []string, info map[string]string, open Opener) Picker {
	return Picker{presets: presets, info: info, open: open, st: newStyles(Themes[0])}
}

// Live returns the running model, or nil while the menu is showing.
func (p Picker) Live() *Model { return p.live }

func (p Picker) Cursor() int { return p.cursor }

func (p Picker) Err() error { return p.err }

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		m := next.(Model)
		p.live = &m
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.presets) == 0 {
			return p, nil
		}
		m, err := p.open(p.presets[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.err = &m, nil
		return p, m.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	st := p.st
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("AXONSIM") + "\n    " + st.muted.Render("filament bundle simulation") + "\n\n")
	for i, name := range p.presets {
		desc := p.info[name]
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.cursor.Render("▸"), st.selected.Render(fmt.Sprintf("%-12s", name)), st.value.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", st.label.Render(fmt.Sprintf("%-12s", name)), st.muted.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + st.failed.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.muted.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu and then the live view.
func RunInteractive(presets []string, info map[string]string, open Opener) error {
	_, err := tea.NewProgram(NewPicker(presets, info, open), tea.WithAltScreen()).Run()
	return err
}
