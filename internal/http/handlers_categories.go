package http

import (
	"net/http"
)

type categoriesData struct {
	UserEmail  string
	Error      string
	Categories []string
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Current()
	if !ok {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "categories.html", categoriesData{
			UserEmail:  sess.Email,
			Categories: s.cats.List(),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}
		s.cats.Add(r.Context(), sanitizeInput(r.FormValue("name")))
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
