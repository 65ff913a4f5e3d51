package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"one_k", 1000, "1k"},
		{"one_and_half_k", 1500, "1.5k"},
		{"just_under_m", 999_949, "999.9k"},
		{"two_m", 2_000_000, "2M"},
		{"mixed_m", 12_340_000, "12.3M"},
		{"one_b", 1_000_000_000, "1B"},
		{"negative", -2500, "-2.5k"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatCompact(tc.input))
		})
	}
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{"zero", 0, "0 ms"},
		{"small_ms", 234 * time.Millisecond, "234 ms"},
		{"just_under_1s", 999 * time.Millisecond, "999 ms"},
		{"exactly_1s", time.Second, "1.00 s"},
		{"one_and_half_s", 1500 * time.Millisecond, "1.50 s"},
		{"negative", -time.Millisecond, "---"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatLatency(tc.input))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 42, "42"},
		{"three_digits", 999, "999"},
		{"four_digits", 1000, "1,000"},
		{"six_digits", 123456, "123,456"},
		{"seven_digits", 1234567, "1,234,567"},
		{"nine_digits", 12345678, "12,345,678"},
		{"negative", -12345, "-12,345"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatNumber(tc.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0.0%"},
		{"small", 1.5, "1.5%"},
		{"typical", 34.5, "34.5%"},
		{"hundred", 100.0, "100.0%"},
		{"fractional", 67.89, "67.9%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPercent(tc.input))
		})
	}
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "Mar 01", FormatDay("2024-03-01"))
	assert.Equal(t, "Dec 31", FormatDay("2023-12-31"))
	assert.Equal(t, "garbage", FormatDay("garbage"))
}

func TestFormatDateRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01 → 2024-03-31", FormatDateRange(start, end))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2024-13-01", "03/01/2024", "2023-02-29"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}
