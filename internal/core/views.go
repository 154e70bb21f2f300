package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Uncategorized is the bucket for transactions without a category label.
const Uncategorized = "Uncategorized"

type (
	// Criteria narrows a transaction list. Every zero-valued field matches
	// all transactions for that dimension.
	Criteria struct {
		Search   string // case-insensitive substring of the description
		Category string // exact match
		Start    Date   // inclusive lower bound
		End      Date   // inclusive upper bound, through end of day
	}

	// Summary is the dashboard card row: expenses and income split by
	// sign, their net, and the entry count.
	Summary struct {
		TotalExpense decimal.Decimal
		TotalIncome  decimal.Decimal
		Net          decimal.Decimal
		Count        int
	}

	// DayAmount is one point of the spending-over-time series.
	DayAmount struct {
		Date   Date
		Amount decimal.Decimal
	}
)

// FilterByPeriod keeps transactions dated in the given month (1-12) and
// year, preserving input order.
func FilterByPeriod(txs []Transaction, month, year int) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Date.Month() == month && t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out
}

// FilterByCriteria keeps transactions matching every set criterion,
// preserving input order.
func FilterByCriteria(txs []Transaction, c Criteria) []Transaction {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if c.Category != "" && t.Category != c.Category {
			continue
		}
		if !c.Start.IsZero() && t.Date.Before(c.Start.Time) {
			continue
		}
		// End is inclusive through end of day; at day granularity that is
		// simply "not after".
		if !c.End.IsZero() && t.Date.After(c.End.Time) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summarize folds a transaction list into totals in a single pass.
// Negative amounts accumulate into TotalExpense as absolute values,
// non-negative amounts into TotalIncome. Empty input yields all zeros.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		TotalExpense: decimal.Zero,
		TotalIncome:  decimal.Zero,
		Net:          decimal.Zero,
		Count:        len(txs),
	}
	for _, t := range txs {
		if t.Amount.IsNegative() {
			s.TotalExpense = s.TotalExpense.Add(t.Amount.Abs())
		} else {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// GroupByCategory sums raw signed amounts per category, so each bucket is
// the category's net position. Unlabelled entries fall into Uncategorized.
func GroupByCategory(txs []Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txs {
		cat := t.Category
		if cat == "" {
			cat = Uncategorized
		}
		out[cat] = out[cat].Add(t.Amount)
	}
	return out
}

// GroupByDay sums absolute amounts per calendar day and returns the series
// in ascending date order regardless of input order.
func GroupByDay(txs []Transaction) []DayAmount {
	totals := make(map[string]decimal.Decimal)
	for _, t := range txs {
		key := t.Date.String()
		totals[key] = totals[key].Add(t.Amount.Abs())
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys) // YYYY-MM-DD sorts chronologically
	out := make([]DayAmount, 0, len(keys))
	for _, k := range keys {
		d, err := ParseDate(k)
		if err != nil {
			continue
		}
		out = append(out, DayAmount{Date: d, Amount: totals[k]})
	}
	return out
}
