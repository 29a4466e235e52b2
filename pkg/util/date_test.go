package util

import (
	"context"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-02-29")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got)
	}
	for _, s := range []string{"", "2024/01/01", "2023-02-29", "01-02-2024", "2024-01-01T00:00:00Z"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestParseDateDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	got := ParseDateDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestSplitYears(t *testing.T) {
	from := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	parts := SplitYears(from, to, 2)
	if len(parts) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(parts))
	}
	if !parts[0][0].Equal(from) || !parts[2][1].Equal(to) {
		t.Fatalf("windows do not cover the range: %v", parts)
	}
	for i := 1; i < len(parts); i++ {
		if !parts[i][0].Equal(parts[i-1][1]) {
			t.Fatalf("gap between windows %d and %d", i-1, i)
		}
	}

	if got := SplitYears(from, to, 0); len(got) != 1 {
		t.Fatalf("expected single window, got %d", len(got))
	}
	if got := SplitYears(to, from, 1); got != nil {
		t.Fatalf("expected nil for empty range")
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  reliance.ns "); got != "RELIANCE.NS" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if RequestID(ctx) != "abc" {
		t.Fatalf("expected request id")
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("expected empty id")
	}
}
