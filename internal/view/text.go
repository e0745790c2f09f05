package view

import (
	"fmt"
	"strings"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

// Text renders v as a framed terminal panel. Row text must have been
// escaped with format.EscapeTerminal by the renderer; ids are escaped here
// since rows carry them raw for the controller.
func Text(v View, t ui.Theme) string {
	var lines []string
	if v.Loading {
		lines = append(lines, t.Muted.Render("Loading todos..."))
	}
	if v.Error != "" {
		lines = append(lines, t.Error.Render(t.SymFail+" "+v.Error))
	}
	if v.List == nil {
		if len(lines) == 0 {
			return ""
		}
		return ui.Panel(t, lines)
	}
	l := v.List

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), l.Counts.Completed,
		t.Pending.Render(t.SymPending), l.Counts.Pending,
		t.Accent.Render("Total"), l.Counts.Total,
		t.Muted.Render("["+string(l.Filter)+"]"),
	)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(l.Counts.Completed, l.Counts.Total, 28)))
	lines = append(lines, "")

	if l.Empty {
		lines = append(lines, t.Muted.Render("no todos"))
	}
	for i, row := range l.Rows {
		lines = append(lines, TextRow(row, i+1, t)...)
	}
	return ui.Panel(t, lines)
}

// TextRow renders one row with its 1-based position: the checkbox line and,
// when present, an indented description line.
func TextRow(row Row, pos int, t ui.Theme) []string {
	box, title := t.Muted.Render(t.BoxUnchecked), row.Title
	if row.Completed {
		box, title = t.Success.Render(t.BoxChecked), t.Done.Render(row.Title)
	}
	idx := t.Muted.Render(fmt.Sprintf("%2d.", pos))
	meta := t.Muted.Render(fmt.Sprintf("%s · %s", row.Created, shortID(row.ID)))
	out := []string{fmt.Sprintf("%s %s %s  %s", idx, box, title, meta)}
	if row.Description != "" {
		for _, ln := range strings.Split(row.Description, "\n") {
			out = append(out, "       "+t.Muted.Render(ln))
		}
	}
	return out
}

func shortID(id string) string {
	if r := []rune(id); len(r) > 8 {
		id = string(r[:8])
	}
	return format.EscapeTerminal(id)
}
