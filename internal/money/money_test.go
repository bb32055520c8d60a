package money

import (
	"errors"
	"testing"
	"time"
)

func TestToMilliunits(t *testing.T) {
	tests := []struct {
		major float64
		want  int64
	}{
		{45.00, 45000},
		{-50.00, -50000},
		{0, 0},
		{12.34, 12340},
		{-12.345, -12345},
		{0.0005, 1},     // half rounds away from zero
		{-0.0005, -1},   // symmetric for negatives
		{1.2345, 1235},  // rounds up at the third decimal
		{-1.2345, -1235},
	}

	for _, tt := range tests {
		if got := ToMilliunits(tt.major); got != tt.want {
			t.Errorf("ToMilliunits(%v) = %d, want %d", tt.major, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, major := range []float64{0, 1.25, -99.99, 1234.567, -0.001} {
		back := FromMilliunits(ToMilliunits(major))
		if diff := back - major; diff > 0.0005 || diff < -0.0005 {
			t.Errorf("round trip of %v gave %v", major, back)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		milli int64
		want  string
	}{
		{45000, "$45.00"},
		{-50000, "-$50.00"},
		{1234560, "$1,234.56"},
		{-1234560, "-$1,234.56"},
		{0, "$0.00"},
		{500, "$0.50"},
		{1000000000, "$1,000,000.00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.milli); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.milli, got, tt.want)
		}
	}
}

func TestResolveDateTokenRelative(t *testing.T) {
	now := time.Now()

	tests := []struct {
		input string
		want  string
	}{
		{"today", now.Format("2006-01-02")},
		{"TODAY", now.Format("2006-01-02")},
		{"yesterday", now.AddDate(0, 0, -1).Format("2006-01-02")},
		{"tomorrow", now.AddDate(0, 0, 1).Format("2006-01-02")},
	}

	for _, tt := range tests {
		got, err := ResolveDateToken(tt.input)
		if err != nil {
			t.Fatalf("ResolveDateToken(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ResolveDateToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveDateTokenExplicit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"03/15/2024", "2024-03-15"},
		{"Mar 15, 2024", "2024-03-15"},
	}

	for _, tt := range tests {
		got, err := ResolveDateToken(tt.input)
		if err != nil {
			t.Fatalf("ResolveDateToken(%q) returned error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ResolveDateToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveDateTokenInvalid(t *testing.T) {
	_, err := ResolveDateToken("not-a-date")
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMonthToken(t *testing.T) {
	got, err := MonthToken("current")
	if err != nil || got != "current" {
		t.Errorf("MonthToken(current) = %q, %v; want current, nil", got, err)
	}

	got, err = MonthToken("2024-03-15")
	if err != nil {
		t.Fatalf("MonthToken returned error: %v", err)
	}
	if got != "2024-03-01" {
		t.Errorf("MonthToken(2024-03-15) = %q, want 2024-03-01", got)
	}

	if _, err := MonthToken("bogus"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
