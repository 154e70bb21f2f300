package http

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/galihfr09/CashTracker/internal/core"
)

type monthOption struct {
	Value int
	Name  string
}

type categoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// dashboardView is the memoized part of a dashboard render: everything
// derived from the collection for one owner and period.
type dashboardView struct {
	Summary    core.Summary
	ByCategory []categoryAmount
	ByDay      []core.DayAmount
}

type dashboardData struct {
	UserEmail string
	Error     string

	Month        int
	Year         int
	MonthOptions []monthOption
	YearOptions  []int

	Summary    core.Summary
	ByCategory []categoryAmount
	ByDay      []core.DayAmount
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := s.sessions.Current()
	if !ok {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}

	s.fetchIfEmpty(r)

	year, month := parseYearMonth(r)
	key := fmt.Sprintf("%s:%04d-%02d", sess.UserID, year, month)

	view, hit := s.dashCache.Get(key)
	if !hit {
		view = buildDashboardView(s.store.All(), month, year)
		s.dashCache.Set(key, view)
	}

	data := dashboardData{
		UserEmail:    sess.Email,
		Error:        errorMessage(s.store.Err()),
		Month:        month,
		Year:         year,
		MonthOptions: monthOptions(),
		YearOptions:  yearOptions(),
		Summary:      view.Summary,
		ByCategory:   view.ByCategory,
		ByDay:        view.ByDay,
	}

	s.render(w, r, "dashboard.html", data)
}

// buildDashboardView narrows the collection to one period and computes
// every dashboard aggregate from that slice.
func buildDashboardView(txs []core.Transaction, month, year int) dashboardView {
	period := core.FilterByPeriod(txs, month, year)

	byCat := core.GroupByCategory(period)
	cats := make([]categoryAmount, 0, len(byCat))
	for name, amount := range byCat {
		cats = append(cats, categoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(cats, func(i, j int) bool {
		ai, aj := cats[i].Amount.Abs(), cats[j].Amount.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return cats[i].Name < cats[j].Name
	})

	return dashboardView{
		Summary:    core.Summarize(period),
		ByCategory: cats,
		ByDay:      core.GroupByDay(period),
	}
}

func monthOptions() []monthOption {
	out := make([]monthOption, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, monthOption{Value: m, Name: time.Month(m).String()})
	}
	return out
}

func yearOptions() []int {
	current := time.Now().Year()
	out := make([]int, 0, 6)
	for y := current - 4; y <= current+1; y++ {
		out = append(out, y)
	}
	return out
}

// fetchIfEmpty triggers a fetch when the collection has never been
// populated, so a fresh server instance shows data on first render. Any
// failure lands in the store's error slot and surfaces on the page.
func (s *Server) fetchIfEmpty(r *http.Request) {
	if len(s.store.All()) == 0 && s.store.Err() == nil {
		_ = s.store.FetchAll(r.Context())
	}
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
