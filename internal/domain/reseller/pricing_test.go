package reseller

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarkupPrice(t *testing.T) {
	cases := []struct {
		base   string
		markup string
		want   string
	}{
		{"5.00", "0", "5.00"},
		{"5.00", "10", "5.50"},
		{"5.00", "25", "6.25"},
		{"1.99", "15", "2.29"}, // 2.2885 rounds up
		{"0.50", "33", "0.67"}, // 0.665 rounds up
	}
	for _, tc := range cases {
		base, _ := decimal.NewFromString(tc.base)
		markup, _ := decimal.NewFromString(tc.markup)
		want, _ := decimal.NewFromString(tc.want)
		if got := markupPrice(base, markup); !got.Equal(want) {
			t.Errorf("markupPrice(%s, %s%%) = %s, want %s", tc.base, tc.markup, got, want)
		}
	}
}
