package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-01", true},
		{" 2024-12-31 ", true},
		{"", false},
		{"03/01/2024", false},
		{"2024-13-01", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error, got %v", i, d)
		}
	}
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{
		Date:        "2024-03-01",
		Description: "Grocery Store",
		Amount:      "-50.00",
		Category:    "Makan",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name  string
		input TransactionInput
		want  error
	}{
		{"missing date", TransactionInput{Description: "a", Amount: "1", Category: "c"}, ErrInvalidDate},
		{"empty description", TransactionInput{Date: "2024-03-01", Description: "  ", Amount: "1", Category: "c"}, ErrEmptyDescription},
		{"empty category", TransactionInput{Date: "2024-03-01", Description: "a", Amount: "1"}, ErrEmptyCategory},
		{"non-numeric amount", TransactionInput{Date: "2024-03-01", Description: "a", Amount: "abc", Category: "c"}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransactionInputTransaction(t *testing.T) {
	in := TransactionInput{
		Date:        "2024-03-02",
		Description: "  Salary  ",
		Amount:      "100",
		Category:    "Aset",
	}
	tx, err := in.Transaction()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Description != "Salary" {
		t.Errorf("description not trimmed: %q", tx.Description)
	}
	if tx.Date.String() != "2024-03-02" {
		t.Errorf("unexpected date %s", tx.Date)
	}
	if !tx.Amount.Equal(mustAmount(t, "100")) {
		t.Errorf("unexpected amount %s", tx.Amount)
	}
	if tx.ID != "" || tx.Owner != "" {
		t.Errorf("id/owner must be left for the store, got %q/%q", tx.ID, tx.Owner)
	}
}
