package http

import (
	"encoding/json"
	"net/http"
	"time"

	applog "github.com/galihfr09/CashTracker/internal/log"
)

type signInData struct {
	Email string
	Error string
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Current(); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signin.html", signInData{})
	case http.MethodPost:
		s.handleSignInSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignInSubmit(w http.ResponseWriter, r *http.Request) {
	if s.passwordAuth == nil {
		s.renderStatus(w, r, "signin.html", signInData{
			Error: "Interactive sign-in is not supported by this backend.",
		}, http.StatusNotImplemented)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	email := sanitizeInput(r.FormValue("email"))
	password := r.FormValue("password")

	if _, err := s.passwordAuth.SignIn(r.Context(), email, password); err != nil {
		s.log.WarnContext(r.Context(), "Sign-in rejected",
			applog.FieldOperation, applog.OpSignIn,
			applog.FieldError, err)
		s.renderStatus(w, r, "signin.html", signInData{
			Email: email,
			Error: err.Error(),
		}, http.StatusUnauthorized)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.sessions.SignOut(r.Context()); err != nil {
		s.log.WarnContext(r.Context(), "Sign-out failed",
			applog.FieldOperation, applog.OpSignOut,
			applog.FieldError, err)
	}
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"templates": "ok"}

	if s.templates == nil || s.templates.Lookup("dashboard.html") == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": checks,
	})
}
