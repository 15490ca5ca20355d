package model

import "time"

// AppTitle is the display name of the site.
const AppTitle = "Info Site"

// TokenInfo is a persisted bearer token plus where it came from.
type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file" | "sqlite"
	CreatedAt time.Time `json:"created_at"` // when we saved it
}

// Session is the admin authentication state.
type Session struct {
	Authenticated bool
	Token         string
}

// Credentials hold the in-flight password between typing and the login attempt.
type Credentials struct {
	Password string
}

// WelcomeContent is the single editable field of the site.
// While Editing is true, Text holds the local draft.
type WelcomeContent struct {
	Text    string
	Editing bool
}

// StatusMessage is the transient user-facing outcome of the last operation.
type StatusMessage struct {
	Text string
}

// Empty reports whether the slot is clear.
func (s StatusMessage) Empty() bool { return s.Text == "" }

// State is a read-only copy of everything the presentation layer renders.
type State struct {
	Title         string
	Authenticated bool
	Password      string
	Welcome       WelcomeContent
	Status        StatusMessage
	Busy          bool
}
