// Package money converts between the YNAB API's milliunit amounts and
// major-unit decimals, and resolves relaxed date tokens into ISO dates.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date token cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ToMilliunits converts a major-unit amount (e.g. dollars) to milliunits.
// Rounds half away from zero, so -1.0005 becomes -1001.
func ToMilliunits(major float64) int64 {
	return int64(math.Round(major * 1000))
}

// FromMilliunits converts milliunits back to a major-unit amount.
func FromMilliunits(milli int64) float64 {
	return float64(milli) / 1000
}

// FormatAmount renders milliunits as a US-dollar display string, e.g.
// 1234560 -> "$1,234.56" and -50000 -> "-$50.00".
func FormatAmount(milli int64) string {
	major := FromMilliunits(milli)
	sign := ""
	if major < 0 {
		sign = "-"
		major = -major
	}

	whole := int64(major)
	cents := int64(math.Round((major - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), cents)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// dateLayouts are tried in order when the input is not a relative token.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// ResolveDateToken expands "today", "yesterday" and "tomorrow"
// (case-insensitive) relative to the local clock, or parses any supported
// date string. Returns the date in YYYY-MM-DD form.
//
// Uses the host's local timezone; "today" follows the process clock.
func ResolveDateToken(input string) (string, error) {
	token := strings.ToLower(strings.TrimSpace(input))
	now := time.Now()

	switch token {
	case "today":
		return now.Format("2006-01-02"), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format("2006-01-02"), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("2006-01-02"), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(input)); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("%w: %q (use today/yesterday/tomorrow or YYYY-MM-DD)", ErrInvalidDate, input)
}

// MonthToken resolves a month argument. The literal "current" passes through
// unchanged (the YNAB months endpoint accepts it); anything else is resolved
// as a date token and truncated to the first of its month.
func MonthToken(input string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(input), "current") {
		return "current", nil
	}

	date, err := ResolveDateToken(input)
	if err != nil {
		return "", err
	}

	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, input)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), nil
}
