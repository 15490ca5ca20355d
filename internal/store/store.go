// Package store defines where the admin bearer token lives between runs.
package store

import (
	"context"
	"strings"

	"github.com/Makepad-fr/infosite/internal/model"
)

// TokenKey is the fixed key the token is persisted under.
const TokenKey = "token"

// TokenStore is durable client-side storage for a single bearer token.
// Get returns nil, nil when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (*model.TokenInfo, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// StripBearer drops a leading "Bearer " scheme so pasted headers work as tokens.
func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
