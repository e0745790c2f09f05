package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/config"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
)

// filterValue lets --filter reject unknown names at parse time.
type filterValue model.Filter

func (f *filterValue) String() string { return string(*f) }

func (f *filterValue) Set(s string) error {
	v, err := model.ParseFilter(s)
	if err != nil {
		return err
	}
	*f = filterValue(v)
	return nil
}

func (f *filterValue) Type() string { return "filter" }

func addFilterFlag(fs *pflag.FlagSet, p *model.Filter) {
	*p = model.FilterAll
	names := make([]string, 0, len(model.Filters))
	for _, f := range model.Filters {
		names = append(names, string(f))
	}
	fs.VarP((*filterValue)(p), "filter", "f", "Show only "+strings.Join(names, "|")+" todos")
}

// Output formats for `todo ls`.
const (
	formatText = "text"
	formatHTML = "html"
	formatJSON = "json"
)

type formatValue string

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(s string) error {
	switch s {
	case formatText, formatHTML, formatJSON:
		*f = formatValue(s)
		return nil
	}
	return fmt.Errorf("unknown format %q (want text|html|json)", s)
}

func (f *formatValue) Type() string { return "format" }

func addFormatFlag(fs *pflag.FlagSet, p *string) {
	*p = formatText
	fs.Var((*formatValue)(p), "format", "Output format (text|html|json)")
}

func timeDuration(d config.Duration) time.Duration { return time.Duration(d) }
