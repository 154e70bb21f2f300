// Package sheets backs the remote store with a Google spreadsheet, one
// transaction per row. Useful for deployments that keep their books in a
// sheet instead of a hosted database.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/galihfr09/CashTracker/internal/core"
	"github.com/galihfr09/CashTracker/internal/remote"
)

// Row layout: A=id, B=date (YYYY-MM-DD), C=description, D=amount,
// E=category, F=owner. Row 1 is the header.
const dataRange = "!A2:F"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ remote.DataStore = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Optional: GOOGLE_SHEET_NAME (default
// "Transactions"). Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
}

// ListTransactions implements remote.DataStore. The whole sheet is read
// and filtered client-side; a transaction sheet for one user stays small.
func (c *Client) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheetName+dataRange).Context(ctx).Do()
	if err != nil {
		return nil, &remote.Error{Op: "list transactions", Message: err.Error()}
	}

	out := make([]core.Transaction, 0, len(resp.Values))
	for i, row := range resp.Values {
		t, err := parseRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed sheet row", "row", i+2, "error", err)
			continue
		}
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// InsertTransaction implements remote.DataStore. Sheets has no notion of
// server-assigned ids, so the adapter mints one before appending; the
// returned record is canonical for the caller either way.
func (c *Client) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	vr := &gsheet.ValueRange{
		Values: [][]interface{}{{t.ID, t.Date.String(), t.Description, t.Amount.String(), t.Category, t.Owner}},
	}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+dataRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, &remote.Error{Op: "insert transaction", Message: err.Error()}
	}
	return t, nil
}

func parseRow(row []interface{}) (core.Transaction, error) {
	get := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(row[i]))
	}
	date, err := core.ParseDate(get(1))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseAmount(get(3))
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          get(0),
		Date:        date,
		Description: get(2),
		Amount:      amount,
		Category:    get(4),
		Owner:       get(5),
	}, nil
}
