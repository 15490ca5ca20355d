// Package api talks to the Info Site backend over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the backend origin used when none is configured.
const DefaultBaseURL = "http://localhost:3512"

const maxBodySize = 1 << 20

// Client calls the four backend endpoints. It holds no session state;
// tokens are passed in by the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A zero timeout means requests are
// bounded only by the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured origin.
func (c *Client) BaseURL() string { return c.baseURL }

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type saveRequest struct {
	WelcomeMessage string `json:"welcomeMessage"`
}

// WelcomeMessage fetches the current message. Anonymous.
func (c *Client) WelcomeMessage(ctx context.Context) (string, error) {
	body, header, err := c.do(ctx, http.MethodGet, "/welcomemessage", "", nil)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(header.Get("Content-Type"), "application/json") {
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return s, nil
		}
	}
	return string(body), nil
}

// CurrentUser asks whether token still identifies a valid admin session.
func (c *Client) CurrentUser(ctx context.Context, token string) error {
	_, _, err := c.do(ctx, http.MethodPost, "/currentuser", token, nil)
	return err
}

// Login exchanges the admin password for a bearer token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	body, _, err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{Password: password})
	if err != nil {
		return "", err
	}
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &Error{Code: CodeBadBody, Err: fmt.Errorf("decode login response: %w", err)}
	}
	if resp.Token == "" {
		return "", &Error{Code: CodeBadBody, Err: errors.New("login response has no token")}
	}
	return resp.Token, nil
}

// SaveWelcomeMessage persists text. Requires a valid token.
func (c *Client) SaveWelcomeMessage(ctx context.Context, token, text string) error {
	_, _, err := c.do(ctx, http.MethodPost, "/welcomeMessage", token, saveRequest{WelcomeMessage: text})
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, &Error{Code: CodeUnknown, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, &Error{Code: CodeUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if payload != nil || method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, nil, transportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, statusError(resp.StatusCode)
	}
	if len(body) > maxBodySize {
		return nil, nil, &Error{Code: CodeBadBody, Status: resp.StatusCode,
			Err: fmt.Errorf("response body exceeds %d bytes", maxBodySize)}
	}
	return body, resp.Header, nil
}
