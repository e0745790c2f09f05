package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + box borders.
// Renderers take a Theme value; Current is what the CLI configured.
type Theme struct {
	Name                                  string
	Title, Muted, Accent, Success, Error  lipgloss.Style
	Pending, Done, Selected, Border       lipgloss.Style
	BoxUnchecked, BoxChecked              string
	SymDone, SymPending, SymFail, Pointer string
	Frame                                 lipgloss.Border
}

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var current = Classic()

func Classic() Theme {
	return Theme{
		Name:         "classic",
		Title:        lipgloss.NewStyle().Bold(true),
		Muted:        lipgloss.NewStyle().Faint(true),
		Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymFail: "✖", Pointer: "> ",
		Frame: lipgloss.RoundedBorder(),
	}
}

func Neon() Theme {
	t := Classic()
	t.Name = "neon"
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	t.Pointer = "▸ "
	return t
}

// Mono has no color and only ASCII glyphs.
func Mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:  "mono",
		Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
		Pending: plain, Done: plain, Selected: plain.Reverse(true), Border: plain,
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-", SymFail: "!", Pointer: "> ",
		Frame: lipgloss.NormalBorder(),
	}
}

// ThemeByName resolves a theme name, case-insensitively.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return Classic(), nil
	case "neon":
		return Neon(), nil
	case "mono":
		return Mono(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (want %s)", name, strings.Join(Themes, ", "))
}

// SetTheme makes name the current theme. Mono also drops the color profile
// to ASCII so nested lipgloss renders stay colorless.
func SetTheme(name string) error {
	t, err := ThemeByName(name)
	if err != nil {
		return err
	}
	if t.Name == "mono" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	current = t
	return nil
}

// Current returns the configured theme.
func Current() Theme { return current }
