package view

import (
	"fmt"
	"strings"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
)

// HTML renders v as page markup. Row text must have been escaped with
// format.EscapeHTML by the renderer; ids and banners are escaped here.
func HTML(v View) string {
	var b strings.Builder

	b.WriteString(`<div id="loading"` + hiddenClass(!v.Loading) + `>Loading todos...</div>` + "\n")
	b.WriteString(`<div id="error-message"` + hiddenClass(v.Error == "") + `>` + format.EscapeHTML(v.Error) + `</div>` + "\n")

	if v.List == nil {
		return b.String()
	}
	l := v.List

	fmt.Fprintf(&b, `<div class="stats"><span id="total-count">%d</span><span id="pending-count">%d</span><span id="completed-count">%d</span></div>`+"\n",
		l.Counts.Total, l.Counts.Pending, l.Counts.Completed)

	b.WriteString(`<div id="empty-state"` + hiddenClass(!l.Empty) + `>No todos yet</div>` + "\n")
	b.WriteString(`<ul id="todo-list" data-filter="` + format.EscapeHTML(string(l.Filter)) + `">`)
	for _, row := range l.Rows {
		writeRowHTML(&b, row)
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func writeRowHTML(b *strings.Builder, row Row) {
	id := format.EscapeHTML(row.ID)
	class, checked := "todo-item", ""
	if row.Completed {
		class, checked = "todo-item completed", " checked"
	}

	b.WriteString("\n")
	fmt.Fprintf(b, `<li class="%s" data-id="%s">`, class, id)
	fmt.Fprintf(b, `<input type="checkbox" class="custom-checkbox" data-action="toggle" data-id="%s"%s>`, id, checked)
	fmt.Fprintf(b, `<div class="todo-title">%s</div>`, row.Title)
	if row.Description != "" {
		fmt.Fprintf(b, `<div class="todo-description">%s</div>`, row.Description)
	}
	fmt.Fprintf(b, `<div class="todo-date">Created %s</div>`, format.EscapeHTML(row.Created))
	fmt.Fprintf(b, `<button class="icon-btn edit" data-action="edit" data-id="%s">Edit</button>`, id)
	fmt.Fprintf(b, `<button class="icon-btn delete" data-action="delete" data-id="%s">Delete</button>`, id)
	b.WriteString("</li>\n")
}

func hiddenClass(hidden bool) string {
	if hidden {
		return ` class="hidden"`
	}
	return ""
}
