package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// guard keeps the program alive when the wrapped model panics. After a panic
// in Update the model is passed through reset before it is shown again.
type guard struct {
	inner tea.Model
	log   *slog.Logger
	reset func(tea.Model) tea.Model
}

func newGuard(inner tea.Model, log *slog.Logger, reset func(tea.Model) tea.Model) guard {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if reset == nil {
		reset = func(m tea.Model) tea.Model { return m }
	}
	return guard{inner: inner, log: log, reset: reset}
}

// backHome drops whatever the subject browser was doing; the selection itself lives
// in the submission and survives.
func backHome(tm tea.Model) tea.Model {
	m, ok := tm.(model)
	if !ok {
		return tm
	}
	m.scr = screenHome
	m.loading = false
	m.browse = nil
	m.subjects.SetItems(nil)
	m.toast = panicToast
	return m
}

func (g guard) Init() tea.Cmd {
	return g.inner.Init()
}

func (g guard) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			g.logPanic("tui.update", r, fmt.Sprintf("%T", msg))
			g.inner = g.reset(g.inner)
			tm = g
			cmd = nil
		}
	}()

	g.inner, cmd = g.inner.Update(msg)
	return g, cmd
}

func (g guard) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.logPanic("tui.view", r, "")
			out = panicToast
		}
	}()
	return g.inner.View()
}

func (g guard) logPanic(where string, r any, msgType string) {
	attrs := []any{
		"where", where,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	}
	if msgType != "" {
		attrs = append(attrs, "msg", msgType)
	}
	if m, ok := g.inner.(model); ok {
		attrs = append(attrs, "screen", int(m.scr), "browse_depth", len(m.browse))
	}
	g.log.Error("panic.recovered", attrs...)
}

var _ tea.Model = guard{}
