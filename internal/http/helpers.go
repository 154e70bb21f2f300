package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	applog "github.com/galihfr09/CashTracker/internal/log"
)

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current period when absent or unparsable.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return year, month
}

// formatRupiah renders an amount as Indonesian Rupiah: dot-grouped
// thousands, comma before decimals, decimals shown only when present.
func formatRupiah(d decimal.Decimal) string {
	neg := d.IsNegative()
	abs := d.Abs()

	intPart := abs.Truncate(0)
	fracPart := abs.Sub(intPart)

	digits := intPart.String()
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := "Rp" + grouped.String()
	if !fracPart.IsZero() {
		frac := fracPart.StringFixed(2)
		out += "," + strings.TrimPrefix(frac, "0.")
	}
	if neg {
		return "-" + out
	}
	return out
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// render executes the named page template, mapping failures to a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.renderStatus(w, r, name, data, http.StatusOK)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	if s.templates == nil || s.templates.Lookup(name) == nil {
		s.log.ErrorContext(r.Context(), "Template not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.ErrorContext(r.Context(), "Template execution failed",
			"template", name, applog.FieldError, err)
	}
}
