package format

import (
	"math"
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{0, "€0.00"},
		{9.99, "€9.99"},
		{9.999, "€10.00"},
		{1234.5, "€1,234.50"},
		{1234567.89, "€1,234,567.89"},
		{-3.5, "-€3.50"},
		{math.NaN(), "€0.00"},
		{math.Inf(1), "€0.00"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Fatalf("Money(%v)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestDateAndDateTime(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.August, 25, 14, 3, 0, 0, time.UTC)
	if got := Date(ts); got != "25 Aug 2026" {
		t.Fatalf("Date=%q", got)
	}
	if got := DateTime(ts); got != "25 Aug 2026 14:03" {
		t.Fatalf("DateTime=%q", got)
	}
	if Date(time.Time{}) != "" || DateTime(time.Time{}) != "" {
		t.Fatalf("zero time should render empty")
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"pending_payment": "Pending payment",
		"SHIPPED":         "Shipped",
		"  paid ":         "Paid",
		"":                "",
	}
	for in, want := range cases {
		if got := Status(in); got != want {
			t.Fatalf("Status(%q)=%q, want %q", in, got, want)
		}
	}
}
