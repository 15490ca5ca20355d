// Package tui is the interactive terminal frontend of the site.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/infosite/internal/model"
	"github.com/Makepad-fr/infosite/internal/session"
)

type mode int

const (
	modeView mode = iota
	modeLogin
	modeEdit
)

type (
	changedMsg   struct{}
	initDoneMsg  struct{}
	loginDoneMsg struct{ closeDialog bool }
	saveDoneMsg  struct{}
	reloadMsg    struct{}
)

// Model renders a session.Store and forwards user actions to it.
type Model struct {
	ctx   context.Context
	store *session.Store
	state model.State

	mode     mode
	password textinput.Model
	editor   textarea.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	width, height int
}

func New(ctx context.Context, store *session.Store) Model {
	pw := textinput.New()
	pw.Prompt = "password: "
	pw.Placeholder = "admin password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 256

	ed := textarea.New()
	ed.Placeholder = "Welcome message..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 4000
	ed.SetHeight(5)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(pendingStyle))

	return Model{
		ctx:      ctx,
		store:    store,
		state:    store.Snapshot(),
		password: pw,
		editor:   ed,
		spinner:  sp,
		help:     help.New(),
		keys:     newKeyMap(),
		width:    80,
		height:   24,
	}
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(ctx context.Context, store *session.Store) error {
	p := tea.NewProgram(New(ctx, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	store, ctx := m.store, m.ctx
	return tea.Batch(
		func() tea.Msg {
			store.Initialize(ctx)
			return initDoneMsg{}
		},
		waitForChange(store.Changes()),
		m.spinner.Tick,
	)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) loginCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		closed := false
		store.Login(ctx, func() { closed = true })
		return loginDoneMsg{closeDialog: closed}
	}
}

func (m Model) saveCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		store.SaveWelcomeMessage(ctx)
		return saveDoneMsg{}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		store.ReloadWelcomeMessage(ctx)
		return reloadMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(20, msg.Width-8))
		return m, nil

	case changedMsg:
		m.sync()
		return m, waitForChange(m.store.Changes())

	case initDoneMsg, reloadMsg:
		m.sync()
		return m, nil

	case loginDoneMsg:
		m.sync()
		m.password.SetValue("")
		if msg.closeDialog {
			m.password.Blur()
			m.mode = modeView
		}
		return m, nil

	case saveDoneMsg:
		m.sync()
		if !m.state.Welcome.Editing {
			m.editor.Blur()
			m.mode = modeView
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateView(msg)
	}
	return m, nil
}

func (m *Model) sync() {
	m.state = m.store.Snapshot()
}

func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Login) && !m.state.Authenticated:
		m.mode = modeLogin
		m.password.SetValue("")
		return m, m.password.Focus()
	case key.Matches(msg, m.keys.Logout) && m.state.Authenticated:
		m.store.Logout()
		m.sync()
		return m, nil
	case key.Matches(msg, m.keys.Edit) && m.state.Authenticated:
		m.store.BeginEditingWelcomeMessage()
		m.sync()
		m.mode = modeEdit
		m.editor.SetValue(m.state.Welcome.Text)
		m.editor.CursorEnd()
		return m, m.editor.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd()
	case key.Matches(msg, m.keys.Dismiss):
		m.store.DeleteStatusMessage()
		m.sync()
		return m, nil
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeView
		m.password.SetValue("")
		m.password.Blur()
		m.store.SetPassword("")
		m.sync()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.state.Busy {
			return m, nil
		}
		m.store.SetPassword(m.password.Value())
		m.sync()
		return m, m.loginCmd()
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	m.store.SetPassword(m.password.Value())
	m.sync()
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelEditingWelcomeMessage()
		m.sync()
		m.editor.Blur()
		m.mode = modeView
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.store.SetWelcomeMessageDraft(m.editor.Value())
		m.sync()
		return m, m.saveCmd()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.store.SetWelcomeMessageDraft(m.editor.Value())
	m.sync()
	return m, cmd
}

func (m Model) View() string {
	width := max(30, m.width-4)
	var b strings.Builder

	header := titleStyle.Render(m.state.Title) + "   "
	if m.state.Authenticated {
		header += successStyle.Render("● admin")
	} else {
		header += mutedStyle.Render("○ guest")
	}
	if m.state.Busy {
		header += "  " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	msg := m.state.Welcome.Text
	if strings.TrimSpace(msg) == "" {
		msg = mutedStyle.Render("(no welcome message)")
	}
	b.WriteString(panelStyle.Width(width).Render(accentStyle.Render("Welcome") + "\n" + msg))
	b.WriteString("\n")

	if !m.state.Status.Empty() {
		b.WriteString(errorStyle.Render("✖ "+m.state.Status.Text) + "\n")
	}

	switch m.mode {
	case modeLogin:
		b.WriteString(dialogStyle.Width(width).Render("Admin login\n" + m.password.View()))
		b.WriteString("\n")
	case modeEdit:
		b.WriteString(dialogStyle.Width(width).Render("Edit welcome message\n" + m.editor.View()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.activeKeys())))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}
