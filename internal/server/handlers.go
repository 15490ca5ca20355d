package server

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxRequestBody = 64 << 10

type loginRequest struct {
	Password *string `json:"password"`
}

type saveRequest struct {
	WelcomeMessage *string `json:"welcomeMessage"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
}

func (s *Server) getWelcomeMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := s.repo.WelcomeMessage(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "read welcome message", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, msg)
}

func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) {
	tok, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	if _, err := s.auth.ValidateToken(tok); err != nil {
		s.log.Info(r.Context(), "session check rejected", "error", err)
		writeJSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil || req.Password == nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := s.auth.CheckPassword(*req.Password); err != nil {
		s.log.Warn(r.Context(), "admin login rejected", "remote", r.RemoteAddr)
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	tok, err := s.auth.IssueToken()
	if err != nil {
		s.log.Error(r.Context(), "issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	s.log.Info(r.Context(), "admin logged in", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) saveWelcomeMessage(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(r, &req); err != nil || req.WelcomeMessage == nil {
		writeError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := s.repo.SetWelcomeMessage(r.Context(), *req.WelcomeMessage); err != nil {
		s.log.Error(r.Context(), "save welcome message", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save")
		return
	}
	s.log.Info(r.Context(), "welcome message updated", "length", len(*req.WelcomeMessage))
	writeJSON(w, http.StatusOK, map[string]string{"welcomeMessage": *req.WelcomeMessage})
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, err := BearerToken(r.Header.Get("Authorization"))
		if err == nil {
			_, err = s.auth.ValidateToken(tok)
		}
		if err != nil {
			s.log.Info(r.Context(), "unauthorized request", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
