package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Login   key.Binding
	Logout  key.Binding
	Edit    key.Binding
	Reload  key.Binding
	Dismiss key.Binding
	Quit    key.Binding

	Submit key.Binding
	Save   key.Binding
	Cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "admin login")),
		Logout:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit message")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss status")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// helpKeys adapts the bindings active in a given mode to help.KeyMap.
type helpKeys struct {
	short []key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h.short} }

func (m Model) activeKeys() helpKeys {
	k := m.keys
	switch m.mode {
	case modeLogin:
		return helpKeys{[]key.Binding{k.Submit, k.Cancel}}
	case modeEdit:
		return helpKeys{[]key.Binding{k.Save, k.Cancel}}
	}
	bs := []key.Binding{}
	if m.state.Authenticated {
		bs = append(bs, k.Edit, k.Logout)
	} else {
		bs = append(bs, k.Login)
	}
	bs = append(bs, k.Reload)
	if !m.state.Status.Empty() {
		bs = append(bs, k.Dismiss)
	}
	return helpKeys{append(bs, k.Quit)}
}
