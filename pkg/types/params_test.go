package types

import "testing"

func TestPageParamsNormalize(t *testing.T) {
	cases := []struct {
		name       string
		in         PageParams
		wantLimit  uint64
		wantOffset uint64
	}{
		{"zero values get defaults", PageParams{}, DefaultPerPage, 0},
		{"explicit page and size", PageParams{Page: 3, PerPage: 10}, 10, 20},
		{"per_page capped", PageParams{Page: 1, PerPage: 5000}, MaxPerPage, 0},
		{"cap applies before offset", PageParams{Page: 2, PerPage: 5000}, MaxPerPage, MaxPerPage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()

			if got := tc.in.Limit(); got != tc.wantLimit {
				t.Errorf("Limit() = %d, want %d", got, tc.wantLimit)
			}
			if got := tc.in.Offset(); got != tc.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tc.wantOffset)
			}
		})
	}
}
