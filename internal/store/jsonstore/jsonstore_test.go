package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "infosite"))
	require.NoError(t, err)
	s.env = func(string) string { return "" }
	return s
}

func TestGet_NothingStored(t *testing.T) {
	s := newStore(t)
	ti, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ti)
}

func TestSetGetDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "Bearer abc"))

	fi, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	ti, err := s.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc", ti.Token)
	assert.Equal(t, "file", ti.Source)
	assert.False(t, ti.CreatedAt.IsZero())

	require.NoError(t, s.Delete(ctx))
	ti, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, ti)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx))
}

func TestSet_EmptyToken(t *testing.T) {
	s := newStore(t)
	assert.ErrorIs(t, s.Set(context.Background(), "  "), ErrEmptyToken)
}

func TestGet_EnvOverride(t *testing.T) {
	s := newStore(t)
	s.env = func(k string) string {
		if k == EnvToken {
			return "bearer from-env"
		}
		return ""
	}
	require.NoError(t, s.Set(context.Background(), "from-file"))

	ti, err := s.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestGet_CorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

	_, err := s.Get(context.Background())
	assert.Error(t, err)
}
