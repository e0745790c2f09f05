package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

// rowItem adapts a rendered row to bubbles/list.Item.
type rowItem struct {
	view.Row
}

func (i rowItem) FilterValue() string { return i.Title }

// rowDelegate draws each row on two lines: the checkbox line and the first
// description line (blank when there is none).
type rowDelegate struct {
	theme ui.Theme
}

func (d rowDelegate) Height() int                         { return 2 }
func (d rowDelegate) Spacing() int                        { return 0 }
func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	lines := view.TextRow(it.Row, index+1, d.theme)
	second := ""
	if len(lines) > 1 {
		second = lines[1]
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(d.theme.Pointer)
	}
	fmt.Fprintf(w, "%s%s\n  %s", prefix, lines[0], second)
}
