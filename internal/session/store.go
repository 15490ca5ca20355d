// Package session holds the admin session and the editable welcome message.
//
// A Store is built once at startup and shared by the presentation layers.
// Operations never return errors: every failure ends up in the status slot,
// which the presentation layer renders and may clear.
//
// Overlapping Login or SaveWelcomeMessage calls are sequenced. Each call takes
// a ticket, and a response whose ticket is no longer the newest for that
// operation is dropped instead of overwriting state.
package session

import (
	"context"
	"sync"

	"github.com/Makepad-fr/infosite/internal/api"
	"github.com/Makepad-fr/infosite/internal/logging"
	"github.com/Makepad-fr/infosite/internal/model"
	"github.com/Makepad-fr/infosite/internal/store"
)

// Backend is the remote side of the store. *api.Client implements it.
type Backend interface {
	WelcomeMessage(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context, token string) error
	Login(ctx context.Context, password string) (string, error)
	SaveWelcomeMessage(ctx context.Context, token, text string) error
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

type Store struct {
	backend Backend
	tokens  store.TokenStore
	log     logging.Logger

	mu         sync.Mutex
	session    model.Session
	creds      model.Credentials
	welcome    model.WelcomeContent
	serverText string // last text confirmed by the backend
	status     model.StatusMessage
	inflight   int

	loginSeq uint64
	saveSeq  uint64
	loadSeq  uint64

	// Token store I/O runs outside mu. persistMu orders the writes, and
	// each flush applies the newest wanted token, so the last decision wins.
	persistMu  sync.Mutex
	wantToken  string
	wantVer    uint64
	flushedVer uint64

	changes chan struct{}
}

func New(backend Backend, tokens store.TokenStore, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		tokens:  tokens,
		log:     logging.Discard(),
		changes: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "session")
	return s
}

// Changes signals (coalesced) after any state mutation.
func (s *Store) Changes() <-chan struct{} { return s.changes }

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// AppTitle is the site name shown by presentation layers.
func (s *Store) AppTitle() string { return model.AppTitle }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.State{
		Title:         model.AppTitle,
		Authenticated: s.session.Authenticated,
		Password:      s.creds.Password,
		Welcome:       s.welcome,
		Status:        s.status,
		Busy:          s.inflight > 0,
	}
}

// Initialize checks the persisted session and loads the welcome message
// concurrently. It returns once both have settled.
func (s *Store) Initialize(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.checkSession(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loadWelcome(ctx, false)
	}()
	wg.Wait()
}

func (s *Store) checkSession(ctx context.Context) {
	ti, err := s.tokens.Get(ctx)
	if err != nil {
		s.log.Warn(ctx, "read stored token", "error", err)
		return
	}
	if ti == nil || ti.Token == "" {
		s.log.Debug(ctx, "no stored token")
		return
	}

	s.mu.Lock()
	seq := s.loginSeq
	s.mu.Unlock()

	err = s.backend.CurrentUser(ctx, ti.Token)

	s.mu.Lock()
	if seq != s.loginSeq {
		// a login or logout happened meanwhile and owns the session now
		s.mu.Unlock()
		s.log.Debug(ctx, "drop stale session check")
		return
	}
	if err == nil {
		s.session = model.Session{Authenticated: true, Token: ti.Token}
		s.mu.Unlock()
		s.notify()
		s.log.Info(ctx, "stored session confirmed", "source", ti.Source)
		return
	}
	s.session.Authenticated = false
	drop := api.IsUnauthorized(err)
	if drop {
		s.dropTokenLocked()
	} else {
		s.session.Token = ti.Token
	}
	s.mu.Unlock()
	s.notify()
	s.log.Info(ctx, "stored session rejected", "code", api.CodeOf(err), "source", ti.Source)
	if drop {
		s.persistToken(ctx)
	}
}

// ReloadWelcomeMessage re-fetches the message. A failure is reported in the status slot.
func (s *Store) ReloadWelcomeMessage(ctx context.Context) {
	s.loadWelcome(ctx, true)
}

func (s *Store) loadWelcome(ctx context.Context, report bool) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.inflight++
	s.mu.Unlock()
	s.notify()

	text, err := s.backend.WelcomeMessage(ctx)

	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()
	s.inflight--
	if seq != s.loadSeq {
		return
	}
	if err != nil {
		s.log.Warn(ctx, "load welcome message", "code", api.CodeOf(err), "error", err)
		if report {
			s.status.Text = reloadFailureMessage(err)
		}
		return
	}
	s.serverText = text
	if s.welcome.Editing {
		// keep the draft; it is reconciled on save
		return
	}
	s.welcome.Text = text
}

// SetPassword updates the in-flight password.
func (s *Store) SetPassword(password string) {
	s.mu.Lock()
	s.creds.Password = password
	s.mu.Unlock()
	s.notify()
}

// Login authenticates with the current password. onSuccess, if non-nil, runs
// after the session is established (e.g. to close a dialog). The password is
// cleared whatever the outcome.
func (s *Store) Login(ctx context.Context, onSuccess func()) {
	s.mu.Lock()
	password := s.creds.Password
	s.loginSeq++
	seq := s.loginSeq
	s.inflight++
	s.mu.Unlock()
	s.notify()

	token, err := s.backend.Login(ctx, password)

	s.mu.Lock()
	s.inflight--
	s.creds.Password = ""
	if seq != s.loginSeq {
		s.mu.Unlock()
		s.notify()
		s.log.Debug(ctx, "drop stale login response")
		return
	}
	if err != nil {
		s.session.Authenticated = false
		s.status.Text = loginFailureMessage(err)
		s.mu.Unlock()
		s.notify()
		s.log.Info(ctx, "login failed", "code", api.CodeOf(err), "kind", api.KindOf(err).String())
		return
	}
	s.session = model.Session{Authenticated: true, Token: token}
	s.status.Text = ""
	s.wantTokenLocked(token)
	s.mu.Unlock()
	s.notify()

	s.persistToken(ctx)

	s.log.Info(ctx, "login succeeded")
	if onSuccess != nil {
		onSuccess()
	}
}

// Logout forgets the token locally. The backend is not contacted, so the
// token stays valid server-side until it expires.
func (s *Store) Logout() {
	ctx := context.Background()
	s.mu.Lock()
	// invalidates any login or session check still in flight
	s.loginSeq++
	s.session.Authenticated = false
	s.dropTokenLocked()
	s.mu.Unlock()
	s.notify()

	s.persistToken(ctx)
	s.log.Info(ctx, "logged out")
}

func (s *Store) dropTokenLocked() {
	s.session.Token = ""
	s.wantTokenLocked("")
}

// wantTokenLocked records the token the store should hold; "" means none.
// Callers flush it with persistToken after releasing mu.
func (s *Store) wantTokenLocked(token string) {
	s.wantToken = token
	s.wantVer++
}

func (s *Store) persistToken(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	token, ver := s.wantToken, s.wantVer
	done := ver == s.flushedVer
	s.mu.Unlock()
	if done {
		return
	}

	if token == "" {
		if err := s.tokens.Delete(ctx); err != nil {
			s.log.Error(ctx, "delete stored token", "error", err)
		}
	} else if err := s.tokens.Set(ctx, token); err != nil {
		// the session still works for this run
		s.log.Error(ctx, "persist token", "error", err)
	}

	s.mu.Lock()
	s.flushedVer = ver
	s.mu.Unlock()
}

// BeginEditingWelcomeMessage enters edit mode. Authorization is only
// enforced when saving.
func (s *Store) BeginEditingWelcomeMessage() {
	s.mu.Lock()
	s.welcome.Editing = true
	s.mu.Unlock()
	s.notify()
}

// SetWelcomeMessageDraft replaces the local draft.
func (s *Store) SetWelcomeMessageDraft(text string) {
	s.mu.Lock()
	s.welcome.Text = text
	s.mu.Unlock()
	s.notify()
}

// CancelEditingWelcomeMessage leaves edit mode and restores the last
// server-confirmed text without contacting the backend.
func (s *Store) CancelEditingWelcomeMessage() {
	s.mu.Lock()
	s.welcome = model.WelcomeContent{Text: s.serverText}
	s.mu.Unlock()
	s.notify()
}

// SaveWelcomeMessage persists the draft. Any failure is treated as a lost
// session: edit mode ends, the session is marked unauthenticated and the
// message is re-fetched, discarding the draft.
func (s *Store) SaveWelcomeMessage(ctx context.Context) {
	s.mu.Lock()
	text := s.welcome.Text
	token := s.session.Token
	s.saveSeq++
	seq := s.saveSeq
	s.inflight++
	s.mu.Unlock()
	s.notify()

	err := s.backend.SaveWelcomeMessage(ctx, token, text)

	s.mu.Lock()
	s.inflight--
	if seq != s.saveSeq {
		s.mu.Unlock()
		s.notify()
		s.log.Debug(ctx, "drop stale save response")
		return
	}
	if err == nil {
		s.welcome.Editing = false
		s.serverText = text
		s.mu.Unlock()
		s.notify()
		s.log.Info(ctx, "welcome message saved", "length", len(text))
		return
	}

	s.status.Text = saveFailureMessage(err)
	s.session.Authenticated = false
	s.welcome = model.WelcomeContent{Text: s.serverText}
	drop := api.IsUnauthorized(err)
	if drop {
		s.dropTokenLocked()
	}
	s.mu.Unlock()
	s.notify()
	s.log.Info(ctx, "save failed", "code", api.CodeOf(err), "kind", api.KindOf(err).String())
	if drop {
		s.persistToken(ctx)
	}

	s.loadWelcome(ctx, false)
}

// DeleteStatusMessage clears the status slot.
func (s *Store) DeleteStatusMessage() {
	s.mu.Lock()
	s.status = model.StatusMessage{}
	s.mu.Unlock()
	s.notify()
}
