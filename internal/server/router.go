// Package server is a reference backend for the Info Site: an anonymous
// welcome message plus an admin login guarding edits.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/infosite/internal/logging"
)

type Server struct {
	auth *Authenticator
	repo ContentRepository
	log  logging.Logger
}

func New(auth *Authenticator, repo ContentRepository, log logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{auth: auth, repo: repo, log: log.With("component", "server")}
}

// Router wires the four endpoints. Paths are case-sensitive and match what
// the site's frontends call, including the mixed-case save path.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/welcomemessage", s.getWelcomeMessage).Methods(http.MethodGet)
	r.HandleFunc("/currentuser", s.currentUser).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/welcomeMessage", s.requireAdmin(s.saveWelcomeMessage)).Methods(http.MethodPost)
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Add("Vary", "Origin")
		}
		next.ServeHTTP(w, r)
	})
}
