package utils

import "testing"

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1000000, "1,000,000"},
		{-2500000, "-2,500,000"},
	}
	for _, c := range cases {
		if got := FormatQuantity(c.in); got != c.want {
			t.Errorf("FormatQuantity(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{999999, "999,999"},
		{1000000, "1.0M"},
		{2500000, "2.5M"},
		{-3000000, "-3.0M"},
	}
	for _, c := range cases {
		if got := FormatCompact(c.in); got != c.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
