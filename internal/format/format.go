package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and input format for dates.
const DateLayout = "2006-01-02"

// FormatCompact formats a count for chart axes and cards.
// Thresholds: <1,000 as is, <1M → k, <1B → M, else B. One decimal place,
// trailing ".0" dropped. Example: 1500 → "1.5k", 2000000 → "2M".
func FormatCompact(n int64) string {
	sign := ""
	v := float64(n)
	if n < 0 {
		sign = "-"
		v = -v
	}
	const (
		k = 1e3
		m = 1e6
		b = 1e9
	)
	var s string
	switch {
	case v < k:
		return strconv.FormatInt(n, 10)
	case v < m:
		s = trimZero(fmt.Sprintf("%.1f", v/k)) + "k"
	case v < b:
		s = trimZero(fmt.Sprintf("%.1f", v/m)) + "M"
	default:
		s = trimZero(fmt.Sprintf("%.1f", v/b)) + "B"
	}
	return sign + s
}

// FormatLatency formats a round duration.
// Durations >= 1s are shown as seconds with 2 decimal places, shorter ones
// as whole milliseconds. Negative durations return "---".
func FormatLatency(d time.Duration) string {
	if d < 0 {
		return "---"
	}
	if d >= time.Second {
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
	return fmt.Sprintf("%d ms", d.Milliseconds())
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
// Uses strconv.FormatInt directly to avoid abs64 overflow for math.MinInt64.
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDay turns a "2006-01-02" date into a short axis label ("Jan 02").
// Unparseable input is returned unchanged.
func FormatDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02")
}

// FormatDateRange renders an inclusive date range for the header.
// Example: "2024-03-01 → 2024-03-31".
func FormatDateRange(start, end time.Time) string {
	return start.Format(DateLayout) + " → " + end.Format(DateLayout)
}

// ParseDate parses a user-entered "YYYY-MM-DD" date in UTC.
// Surrounding whitespace is ignored.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
