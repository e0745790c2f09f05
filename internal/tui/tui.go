// Package tui is the interactive surface: a bubbletea program that forwards
// key presses to the controller as intents and redraws from the views the
// controller pushes back.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/api"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/controller"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/store"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

type Options struct {
	BaseURL string
	Theme   ui.Theme
	Logger  *slog.Logger
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, remote api.Remote, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	surface := &programSurface{}
	ctl := controller.New(remote, store.New(), view.NewRenderer(format.EscapeTerminal), controller.Options{
		Surface: surface,
		Confirm: surface.confirm,
		Logger:  opts.Logger,
		BaseURL: opts.BaseURL,
	})

	p := tea.NewProgram(newModel(ctx, ctl, opts.Theme), tea.WithAltScreen(), tea.WithContext(ctx))
	surface.send = p.Send
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// programSurface hands controller views and confirmation requests to the
// running program. Both are called from command goroutines, never from
// Update.
type programSurface struct {
	send func(tea.Msg)
}

func (s *programSurface) Draw(v view.View) { s.send(viewMsg{v}) }

func (s *programSurface) confirm(ctx context.Context, prompt string) (bool, error) {
	reply := make(chan bool, 1)
	s.send(confirmMsg{prompt: prompt, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type viewMsg struct{ view.View }

type confirmMsg struct {
	prompt string
	reply  chan<- bool
}

// intentDoneMsg reports that a dispatched intent has returned.
type intentDoneMsg struct {
	kind controller.Kind
	err  error
}

type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeEdit
	modeConfirm
)

const (
	fieldTitle = iota
	fieldDescription
)

type tuiModel struct {
	ctx   context.Context
	ctl   *controller.Controller
	theme ui.Theme
	copy  func(string) error

	view    view.View
	list    list.Model
	spinner spinner.Model
	help    help.Model

	mode    mode
	inputs  [2]textinput.Model
	focus   int
	formErr string
	pending *confirmMsg
	status  string

	width, height int
}

func newModel(ctx context.Context, ctl *controller.Controller, theme ui.Theme) tuiModel {
	l := list.New(nil, rowDelegate{theme: theme}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.Styles.PaginationStyle = theme.Muted

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Accent

	h := help.New()
	h.Styles.ShortKey = theme.Accent
	h.Styles.FullKey = theme.Accent

	title := textinput.New()
	title.Prompt = "Title: "
	title.Placeholder = "What needs to be done?"
	title.CharLimit = 200
	desc := textinput.New()
	desc.Prompt = "Description: "
	desc.Placeholder = "optional"
	desc.CharLimit = 1000

	return tuiModel{
		ctx:     ctx,
		ctl:     ctl,
		theme:   theme,
		copy:    clipboard.WriteAll,
		list:    l,
		spinner: sp,
		help:    h,
		inputs:  [2]textinput.Model{title, desc},
		width:   80,
		height:  24,
	}
}

func (m tuiModel) dispatch(in controller.Intent) tea.Cmd {
	ctl, ctx := m.ctl, m.ctx
	return func() tea.Msg {
		return intentDoneMsg{kind: in.Kind, err: ctl.Dispatch(ctx, in)}
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.dispatch(controller.Intent{Kind: controller.KindStartup}))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width - 4
		m.resizeList()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case viewMsg:
		return m, m.applyView(msg.View)

	case confirmMsg:
		// One modal at a time; a second delete waiting on it is declined.
		if m.pending != nil {
			msg.reply <- false
			return m, nil
		}
		m.pending = &msg
		m.mode = modeConfirm
		return m, nil

	case intentDoneMsg:
		return m.intentDone(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeCreate, modeEdit:
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *tuiModel) applyView(v view.View) tea.Cmd {
	m.view = v
	if v.List == nil {
		return m.list.SetItems(nil)
	}
	items := make([]list.Item, 0, len(v.List.Rows))
	for _, r := range v.List.Rows {
		items = append(items, rowItem{r})
	}
	return m.list.SetItems(items)
}

func (m tuiModel) intentDone(msg intentDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case controller.KindCreate:
		switch {
		case msg.err == nil:
			m.closeForm()
			m.status = "added"
		case errors.Is(msg.err, controller.ErrEmptyTitle):
			m.formErr = "Title cannot be empty"
		}
	case controller.KindOpenEdit:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		return m, m.openForm(modeEdit, m.view.Edit.Title, m.view.Edit.Description)
	case controller.KindSubmitEdit:
		switch {
		case msg.err == nil:
			m.closeForm()
			m.status = "saved"
		case errors.Is(msg.err, controller.ErrEmptyTitle):
			m.formErr = "Title cannot be empty"
		}
	case controller.KindCancelEdit:
		m.closeForm()
	case controller.KindDelete:
		if m.pending != nil {
			return m, nil
		}
		switch {
		case msg.err == nil:
			m.status = "deleted"
		case errors.Is(msg.err, controller.ErrCanceled):
			m.status = "not deleted"
		}
	}
	return m, nil
}

func (m tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeList()
		return m, nil
	case key.Matches(msg, keys.Add):
		form := m.view.Create
		return m, m.openForm(modeCreate, form.Title, form.Description)
	case key.Matches(msg, keys.Reload):
		return m, m.dispatch(controller.Intent{Kind: controller.KindReload})
	case key.Matches(msg, keys.All):
		return m, m.filter(model.FilterAll)
	case key.Matches(msg, keys.Pending):
		return m, m.filter(model.FilterPending)
	case key.Matches(msg, keys.Done):
		return m, m.filter(model.FilterCompleted)
	case key.Matches(msg, keys.Cycle):
		return m, m.filter(m.currentFilter().Next())
	}

	row, ok := m.selected()
	switch {
	case key.Matches(msg, keys.Toggle):
		if ok {
			return m, m.dispatch(controller.Intent{Kind: controller.KindToggle, ID: row.ID})
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		if ok {
			return m, m.dispatch(controller.Intent{Kind: controller.KindOpenEdit, ID: row.ID})
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if ok {
			return m, m.dispatch(controller.Intent{Kind: controller.KindDelete, ID: row.ID})
		}
		return m, nil
	case key.Matches(msg, keys.Copy):
		if ok {
			if err := m.copy(row.ID); err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "copied " + format.EscapeTerminal(row.ID)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == modeEdit {
			return m, m.dispatch(controller.Intent{Kind: controller.KindCancelEdit})
		}
		m.closeForm()
		return m, nil
	case "tab", "shift+tab", "down", "up":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()
	case "enter":
		m.formErr = ""
		in := controller.Intent{
			Kind:        controller.KindCreate,
			Title:       m.inputs[fieldTitle].Value(),
			Description: m.inputs[fieldDescription].Value(),
		}
		if m.mode == modeEdit {
			in.Kind = controller.KindSubmitEdit
		}
		return m, m.dispatch(in)
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m tuiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending == nil {
		m.mode = modeBrowse
		return m, nil
	}
	switch msg.String() {
	case "y", "Y":
		m.pending.reply <- true
	case "n", "N", "esc", "q":
		m.pending.reply <- false
	default:
		return m, nil
	}
	m.pending, m.mode = nil, modeBrowse
	return m, nil
}

func (m *tuiModel) openForm(md mode, title, description string) tea.Cmd {
	m.mode, m.formErr, m.focus = md, "", fieldTitle
	m.inputs[fieldTitle].SetValue(title)
	m.inputs[fieldTitle].CursorEnd()
	m.inputs[fieldDescription].SetValue(description)
	m.inputs[fieldDescription].Blur()
	m.resizeList()
	return m.inputs[fieldTitle].Focus()
}

func (m *tuiModel) closeForm() {
	m.mode, m.formErr = modeBrowse, ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.resizeList()
}

func (m tuiModel) filter(f model.Filter) tea.Cmd {
	return m.dispatch(controller.Intent{Kind: controller.KindChangeFilter, Filter: f})
}

func (m tuiModel) currentFilter() model.Filter {
	if m.view.List == nil {
		return model.FilterAll
	}
	return m.view.List.Filter
}

func (m tuiModel) selected() (view.Row, bool) {
	it, ok := m.list.SelectedItem().(rowItem)
	return it.Row, ok
}

func (m *tuiModel) resizeList() {
	reserved := 8
	if m.mode == modeCreate || m.mode == modeEdit {
		reserved += 5
	}
	if m.help.ShowAll {
		reserved += 3
	}
	h := m.height - reserved
	if h < 2 {
		h = 2
	}
	m.list.SetSize(m.width-4, h)
}

func (m tuiModel) View() string {
	t := m.theme
	var lines []string
	lines = append(lines, m.header())

	if m.view.Loading {
		lines = append(lines, m.spinner.View()+t.Muted.Render("Loading todos..."))
	}
	if m.view.Error != "" {
		lines = append(lines, t.Error.Render(t.SymFail+" "+m.view.Error))
	}
	lines = append(lines, "")

	switch {
	case m.view.List != nil && m.view.List.Empty:
		lines = append(lines, t.Muted.Render("No todos yet"))
	case m.view.List != nil:
		lines = append(lines, m.list.View())
	}

	switch m.mode {
	case modeCreate, modeEdit:
		lines = append(lines, "", m.formView())
	case modeConfirm:
		lines = append(lines, "", ui.Panel(t, []string{t.Pending.Render(m.pending.prompt)}))
	}

	if m.status != "" {
		lines = append(lines, t.Muted.Render(m.status))
	}
	lines = append(lines, m.helpView())
	return ui.Panel(t, lines)
}

func (m tuiModel) header() string {
	t := m.theme
	if m.view.List == nil {
		return t.Title.Render("Todos")
	}
	c := m.view.List.Counts
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s  %s",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), c.Completed,
		t.Pending.Render(t.SymPending), c.Pending,
		t.Accent.Render("Total"), c.Total,
		t.Muted.Render("["+string(m.view.List.Filter)+"]"),
		t.Muted.Render(ui.ProgressBar(c.Completed, c.Total, 16)),
	)
}

func (m tuiModel) formView() string {
	t := m.theme
	title := "Add new todo"
	if m.mode == modeEdit {
		title = "Edit todo"
	}
	if m.formErr != "" {
		title += "  " + t.Error.Render(m.formErr)
	}
	return ui.Panel(t, []string{
		t.Title.Render(title),
		m.inputs[fieldTitle].View(),
		m.inputs[fieldDescription].View(),
	})
}

func (m tuiModel) helpView() string {
	switch m.mode {
	case modeCreate, modeEdit:
		return m.help.ShortHelpView(formKeys)
	case modeConfirm:
		return m.help.ShortHelpView(confirmKeys)
	}
	return strings.TrimRight(m.help.View(keys), "\n")
}
