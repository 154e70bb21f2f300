package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/store"
)

// addNewCategory is the select-option sentinel the add form uses to
// switch from the category list to the free-text field.
const addNewCategory = "_add_new_"

type transactionsData struct {
	UserEmail string
	Error     string

	Search         string
	FilterCategory string
	Start          string
	End            string

	Categories   []string
	Transactions []core.Transaction

	FormError       string
	FormDate        string
	FormDescription string
	FormAmount      string
	FormCategory    string
	FormNewCategory string
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Current()
	if !ok {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.fetchIfEmpty(r)
		s.render(w, r, "transactions.html", s.transactionsPage(r, sess.Email))
	case http.MethodPost:
		s.handleAddTransaction(w, r, sess.Email)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// transactionsPage assembles the list page: the filtered collection plus
// current filter and form state.
func (s *Server) transactionsPage(r *http.Request, email string) transactionsData {
	q := r.URL.Query()
	crit := core.Criteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
	if d, err := core.ParseDate(q.Get("start")); err == nil {
		crit.Start = d
	}
	if d, err := core.ParseDate(q.Get("end")); err == nil {
		crit.End = d
	}

	return transactionsData{
		UserEmail:      email,
		Error:          errorMessage(s.store.Err()),
		Search:         crit.Search,
		FilterCategory: crit.Category,
		Start:          q.Get("start"),
		End:            q.Get("end"),
		Categories:     s.cats.List(),
		Transactions:   core.FilterByCriteria(s.store.All(), crit),
		FormDate:       time.Now().Format(core.DateLayout),
	}
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request, email string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	category := sanitizeInput(r.FormValue("category"))
	newCategory := sanitizeInput(r.FormValue("new_category"))
	if category == addNewCategory {
		category = newCategory
		s.cats.Add(r.Context(), newCategory)
	}

	input := core.TransactionInput{
		Date:        sanitizeInput(r.FormValue("date")),
		Description: sanitizeInput(r.FormValue("description")),
		Amount:      sanitizeInput(r.FormValue("amount")),
		Category:    category,
	}

	_, err := s.store.Add(r.Context(), input)
	if err == nil {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}
	if errors.Is(err, store.ErrNotAuthenticated) {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	data := s.transactionsPage(r, email)
	data.FormError = err.Error()
	data.FormDate = input.Date
	data.FormDescription = input.Description
	data.FormAmount = input.Amount
	data.FormCategory = r.FormValue("category")
	data.FormNewCategory = newCategory

	status := http.StatusBadGateway
	if errors.Is(err, store.ErrValidation) {
		status = http.StatusUnprocessableEntity
	}
	s.renderStatus(w, r, "transactions.html", data, status)
}
