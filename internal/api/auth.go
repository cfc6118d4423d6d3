package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// StaticAuthenticator accepts exactly one credential pair. Not a security
// model — a single shared secret for a single-tenant deployment.
type StaticAuthenticator struct {
	Username string
	Password string
}

func (a StaticAuthenticator) Authenticate(username, password string) bool {
	return a.Password != "" && username == a.Username && password == a.Password
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !s.auth.Authenticate(req.Username, req.Password) {
		s.logger.Warn("login rejected", "username", req.Username)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respond(w, http.StatusOK, map[string]string{"token": s.token})
}

// requireToken rejects requests lacking the bearer token before any
// handler — and therefore the store — is touched.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, prefix) || strings.TrimPrefix(header, prefix) != s.token {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
