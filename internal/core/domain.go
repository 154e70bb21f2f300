package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used at every boundary
// (remote store columns, form inputs, chart labels).
const DateLayout = "2006-01-02"

type (
	// Session is the authenticated-user context gating all data operations.
	Session struct {
		UserID string
		Email  string
	}

	// Date is a calendar date with day granularity. The embedded time
	// carries no meaningful clock component.
	Date struct {
		time.Time
	}

	// Transaction is one row of the remote transactions table. The ID is
	// opaque and assigned by the remote store; Owner is stamped from the
	// active session on insert. A negative Amount is an expense, a
	// non-negative one is income.
	Transaction struct {
		ID          string
		Date        Date
		Description string
		Amount      decimal.Decimal
		Category    string
		Owner       string
	}

	// TransactionInput carries raw form fields before validation.
	TransactionInput struct {
		Date        string
		Description string
		Amount      string
		Category    string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Validate checks the raw input without converting it. Each failure maps
// to one of the sentinel errors above.
func (i TransactionInput) Validate() error {
	if _, err := ParseDate(i.Date); err != nil {
		return err
	}
	if len(strings.TrimSpace(i.Description)) == 0 {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(i.Category) == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseAmount(i.Amount); err != nil {
		return err
	}
	return nil
}

// Transaction converts validated input into a record ready for insertion.
// ID and Owner are left empty; the store stamps the owner and the remote
// store assigns the id.
func (i TransactionInput) Transaction() (Transaction, error) {
	date, err := ParseDate(i.Date)
	if err != nil {
		return Transaction{}, err
	}
	desc := strings.TrimSpace(i.Description)
	if desc == "" {
		return Transaction{}, ErrEmptyDescription
	}
	category := strings.TrimSpace(i.Category)
	if category == "" {
		return Transaction{}, ErrEmptyCategory
	}
	amount, err := ParseAmount(i.Amount)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    category,
	}, nil
}
