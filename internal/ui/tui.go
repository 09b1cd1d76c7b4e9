// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tdl/internal/command"
	"github.com/nibzard/tdl/internal/config"
	"github.com/nibzard/tdl/internal/todo"
)

// Engine is the part of command.Engine the shell drives.
type Engine interface {
	Submit(line string) error
	Snapshot() *todo.List
	LastResult() (command.Result, bool)
}

// Options configures the TUI.
type Options struct {
	Engine   Engine
	TodoPath string
	Keys     config.Keymapping
	Palette  config.Palette
}

// RunTUI starts the TUI and blocks until the user quits or ctx is done.
func RunTUI(ctx context.Context, opts Options) error {
	if opts.Engine == nil {
		return fmt.Errorf("tui requires an engine")
	}
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	return runProgram(ctx, newTUIModel(opts))
}

func runProgram(ctx context.Context, model *tuiModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	engine   Engine
	todoPath string
	keys     config.Keymapping
	styles   styles
	input    textinput.Model
	list     *todo.List
	status   string
	failed   bool
	showInfo bool
}

func newTUIModel(opts Options) *tuiModel {
	keys := opts.Keys
	if keys.Exit == "" {
		keys.Exit = config.DefaultExitKey
	}
	if keys.PanelToggle == "" {
		keys.PanelToggle = config.DefaultPanelToggleKey
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "add <name> | check <ref> | uncheck <ref> | rm <ref>"
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	m := &tuiModel{
		engine:   opts.Engine,
		todoPath: opts.TodoPath,
		keys:     keys,
		styles:   newStyles(opts.Palette.Primary),
		input:    ti,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", m.keys.Exit:
			return m, tea.Quit
		case m.keys.PanelToggle:
			m.showInfo = !m.showInfo
			return m, nil
		case "enter":
			m.submit()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the typed line to the engine and redraws from its state.
func (m *tuiModel) submit() {
	line := m.input.Value()
	if line == "" {
		return
	}
	m.input.Reset()
	// The outcome is read back through LastResult.
	_ = m.engine.Submit(line)
	m.refresh()
}

func (m *tuiModel) refresh() {
	m.list = m.engine.Snapshot()
	res, ok := m.engine.LastResult()
	if !ok {
		return
	}
	m.status = res.Status()
	m.failed = !res.OK()
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)
	m.writeTasks(&b)
	if m.showInfo {
		m.writeInfo(&b)
	}
	m.writeStatus(&b)
	b.WriteString(m.input.View() + "\n\n")
	m.writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := "tdl"
	if m.list != nil && m.list.Name != "" {
		title += " - " + m.list.Name
	}
	b.WriteString(m.styles.title.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if m.list == nil || len(m.list.Tasks) == 0 {
		b.WriteString(m.styles.help.Render(`  No tasks yet. Type "add <name>" below.`) + "\n\n")
		return
	}
	for i := range m.list.Tasks {
		b.WriteString(m.formatTask(&m.list.Tasks[i]) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatTask(t *todo.Task) string {
	box := "[ ]"
	style := m.styles.pending
	if t.Done() {
		box = "[x]"
		style = m.styles.done
	}
	return fmt.Sprintf("  %s %s  %s", box, m.styles.id.Render(fmt.Sprintf("%d", t.ID)), style.Render(t.Name))
}

func (m *tuiModel) writeInfo(b *strings.Builder) {
	counts := m.list.Counts()
	lines := []string{
		m.styles.label.Render("File:  ") + m.todoPath,
		m.styles.label.Render("List:  ") + m.list.Name,
		m.styles.label.Render("Tasks: ") + fmt.Sprintf("%d (%d pending, %d done)",
			len(m.list.Tasks), counts[todo.StatusPending], counts[todo.StatusCompleted]),
	}
	b.WriteString(m.styles.panel.Render(strings.Join(lines, "\n")) + "\n\n")
}

func (m *tuiModel) writeStatus(b *strings.Builder) {
	if m.status == "" {
		b.WriteString("\n")
		return
	}
	if m.failed {
		b.WriteString(m.styles.err.Render(m.status) + "\n")
		return
	}
	b.WriteString(m.styles.status.Render(m.status) + "\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	b.WriteString(m.styles.help.Render(fmt.Sprintf("%s quit | %s info | refs: name, :id or id:",
		m.keys.Exit, m.keys.PanelToggle)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
