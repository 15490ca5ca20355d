package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeMessage_Plain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/welcomemessage", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// trailing slash on the origin is tolerated
	c := New(srv.URL+"/", 0)
	got, err := c.WelcomeMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, srv.URL, c.BaseURL())
}

func TestWelcomeMessage_JSONStringIsUnquoted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`"quoted"`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, 0).WelcomeMessage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "quoted", got)
}

func TestWelcomeMessage_OversizedBodyIsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", maxBodySize+1)))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).WelcomeMessage(context.Background())
	require.Error(t, err)
	assert.Equal(t, CodeBadBody, CodeOf(err))
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestWelcomeMessage_BodyAtLimitIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", maxBodySize)))
	}))
	defer srv.Close()

	got, err := New(srv.URL, 0).WelcomeMessage(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, maxBodySize)
}

func TestLogin_SendsPasswordAndReturnsToken(t *testing.T) {
	var gotPassword, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPassword = body["password"]
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	tok, err := New(srv.URL, 0).Login(context.Background(), "secret123")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	assert.Equal(t, "secret123", gotPassword)
	assert.Equal(t, "application/json", gotContentType)
}

func TestLogin_EmptyTokenIsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).Login(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, CodeBadBody, CodeOf(err))
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestSaveWelcomeMessage_SendsBearerAndBody(t *testing.T) {
	var auth, msg string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/welcomeMessage", r.URL.Path)
		auth = r.Header.Get("Authorization")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		msg = body["welcomeMessage"]
	}))
	defer srv.Close()

	err := New(srv.URL, 0).SaveWelcomeMessage(context.Background(), "tok", "new text")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "new text", msg)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status       int
		code         string
		kind         Kind
		unauthorized bool
	}{
		{http.StatusBadRequest, CodeBadRequest, KindBadRequest, false},
		{http.StatusUnauthorized, CodeBadRequest, KindBadRequest, true},
		{http.StatusForbidden, CodeBadRequest, KindBadRequest, true},
		{http.StatusInternalServerError, CodeBadResponse, KindUnknown, false},
		{http.StatusBadGateway, CodeBadResponse, KindUnknown, false},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			err := New(srv.URL, 0).CurrentUser(context.Background(), "tok")
			require.Error(t, err)
			var ae *Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tc.status, ae.Status)
			assert.Equal(t, tc.code, CodeOf(err))
			assert.Equal(t, tc.kind, KindOf(err))
			assert.Equal(t, tc.unauthorized, IsUnauthorized(err))
		})
	}
}

func TestNetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 0).WelcomeMessage(context.Background())
	require.Error(t, err)
	assert.Equal(t, CodeNetwork, CodeOf(err))
	assert.Equal(t, KindNetworkUnreachable, KindOf(err))
}

func TestTimeoutIsAborted(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).WelcomeMessage(context.Background())
	require.Error(t, err)
	assert.Equal(t, CodeAborted, CodeOf(err))
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestForeignErrorsAreUnknown(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, CodeUnknown, CodeOf(err))
	assert.False(t, IsUnauthorized(err))
}
