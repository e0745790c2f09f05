// Package format turns todo data into display text: relative creation labels,
// escaping for the HTML and terminal surfaces, and strict JSON output.
package format

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// RelativeLabel describes how long ago t was, seen from now.
// Thresholds use truncating division, so 90 minutes is "1h ago".
func RelativeLabel(t, now time.Time) string {
	age := now.Sub(t)
	mins := int64(age / time.Minute)
	hours := int64(age / time.Hour)
	days := int64(age / (24 * time.Hour))

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}

	local := t.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

// EscapeHTML neutralizes markup-significant characters. The result unescapes
// back to exactly s.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// EscapeTerminal strips escape sequences and control characters so task text
// cannot move the cursor or restyle the terminal. Newlines and tabs survive.
func EscapeTerminal(s string) string {
	s = ansi.Strip(s)
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return '�'
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
