package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseLenient(t *testing.T) {
	cases := []struct {
		raw      string
		fallback string
		want     string
	}{
		{"150,50", "0", "150.5"},
		{"150.50", "0", "150.5"},
		{" 99 ", "0", "99"},
		{"", "0", "0"},
		{"", "1", "1"},
		{"abc", "0", "0"},
		{"12,5,0", "3", "3"},
	}
	for _, tc := range cases {
		fallback := decimal.RequireFromString(tc.fallback)
		got := ParseLenient(tc.raw, fallback)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("ParseLenient(%q, %s) = %s, want %s", tc.raw, tc.fallback, got, tc.want)
		}
	}
}
