package tui

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/infosite/internal/api"
	"github.com/Makepad-fr/infosite/internal/session"
	"github.com/Makepad-fr/infosite/internal/store/jsonstore"
)

type fakeBackend struct {
	mu      sync.Mutex
	welcome string
	saveErr error
}

func (f *fakeBackend) WelcomeMessage(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.welcome, nil
}

func (f *fakeBackend) CurrentUser(context.Context, string) error { return nil }

func (f *fakeBackend) Login(_ context.Context, pw string) (string, error) {
	if pw != "secret123" {
		return "", &api.Error{Code: api.CodeBadRequest, Status: http.StatusBadRequest}
	}
	return "abc", nil
}

func (f *fakeBackend) SaveWelcomeMessage(_ context.Context, _, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.welcome = text
	return nil
}

func newModel(t *testing.T, fb *fakeBackend) (Model, *session.Store) {
	t.Helper()
	t.Setenv(jsonstore.EnvToken, "")
	ts, err := jsonstore.New(filepath.Join(t.TempDir(), "infosite"))
	require.NoError(t, err)
	s := session.New(fb, ts)
	s.Initialize(context.Background())
	return New(context.Background(), s), s
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, runes(string(r)))
	}
	return m
}

func login(t *testing.T, m Model, password string) (Model, loginDoneMsg) {
	t.Helper()
	m, _ = press(t, m, runes("l"))
	require.Equal(t, modeLogin, m.mode)
	m = typeText(t, m, password)
	require.Equal(t, password, m.state.Password)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done, ok := cmd().(loginDoneMsg)
	require.True(t, ok)
	m, _ = press(t, m, done)
	return m, done
}

func TestView_ShowsWelcomeMessage(t *testing.T) {
	m, _ := newModel(t, &fakeBackend{welcome: "Hello visitors"})
	out := m.View()
	assert.Contains(t, out, "Info Site")
	assert.Contains(t, out, "Hello visitors")
	assert.Contains(t, out, "guest")
}

func TestLogin_ClosesDialogOnSuccess(t *testing.T) {
	m, s := newModel(t, &fakeBackend{welcome: "hi"})

	m, done := login(t, m, "secret123")

	assert.True(t, done.closeDialog)
	assert.Equal(t, modeView, m.mode)
	assert.True(t, m.state.Authenticated)
	assert.Empty(t, s.Snapshot().Password)
	assert.Contains(t, m.View(), "admin")
}

func TestLogin_FailureKeepsDialogAndShowsStatus(t *testing.T) {
	m, _ := newModel(t, &fakeBackend{welcome: "hi"})

	m, done := login(t, m, "wrong")

	assert.False(t, done.closeDialog)
	assert.Equal(t, modeLogin, m.mode)
	assert.False(t, m.state.Authenticated)
	assert.Empty(t, m.password.Value())
	assert.Contains(t, m.View(), session.MsgLoginRejected)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeView, m.mode)

	m, _ = press(t, m, runes("x"))
	assert.True(t, m.state.Status.Empty())
}

func TestEdit_SaveAndCancel(t *testing.T) {
	fb := &fakeBackend{welcome: "v1"}
	m, _ := newModel(t, fb)

	// editing needs the admin session in the TUI
	m, _ = press(t, m, runes("e"))
	assert.Equal(t, modeView, m.mode)

	m, _ = login(t, m, "secret123")

	m, _ = press(t, m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "v1", m.editor.Value())

	m = typeText(t, m, " and more")
	assert.Equal(t, "v1 and more", m.state.Welcome.Text)
	assert.Contains(t, m.View(), "v1 and more")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())

	assert.Equal(t, modeView, m.mode)
	assert.False(t, m.state.Welcome.Editing)
	assert.Equal(t, "v1 and more", fb.welcome)

	m, _ = press(t, m, runes("e"))
	m = typeText(t, m, "!!!")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeView, m.mode)
	assert.Equal(t, "v1 and more", m.state.Welcome.Text)
}

func TestEdit_SaveFailureLogsOut(t *testing.T) {
	fb := &fakeBackend{welcome: "v1"}
	m, _ := newModel(t, fb)
	m, _ = login(t, m, "secret123")

	fb.saveErr = &api.Error{Code: api.CodeNetwork, Err: errors.New("down")}
	m, _ = press(t, m, runes("e"))
	m = typeText(t, m, "x")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = press(t, m, cmd())

	assert.Equal(t, modeView, m.mode)
	assert.False(t, m.state.Authenticated)
	assert.Equal(t, "v1", m.state.Welcome.Text)
	assert.Equal(t, session.MsgUnavailable, m.state.Status.Text)
}

func TestLogout(t *testing.T) {
	m, _ := newModel(t, &fakeBackend{welcome: "hi"})
	m, _ = login(t, m, "secret123")

	m, _ = press(t, m, runes("o"))
	assert.False(t, m.state.Authenticated)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, &fakeBackend{})
	_, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestChangedMsg_Resubscribes(t *testing.T) {
	m, s := newModel(t, &fakeBackend{welcome: "hi"})
	s.SetWelcomeMessageDraft("changed elsewhere")

	m, cmd := press(t, m, changedMsg{})
	assert.Equal(t, "changed elsewhere", m.state.Welcome.Text)
	assert.NotNil(t, cmd)
}

func TestWindowSize(t *testing.T) {
	m, _ := newModel(t, &fakeBackend{})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
