package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"50.00", "50", true},
		{"-25.50", "-25.5", true},
		{"12,34", "12.34", true},
		{" 7 ", "7", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"12.3.4", "", false},
		{"--5", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if !tc.ok {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !got.Equal(mustAmount(t, tc.want)) {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
