package utils

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"45s", 45 * time.Second},
		{"2h", 2 * time.Hour},
		{"1d", Day},
		{"1w", Week},
		{"1mo", Month},
		{"1y", Year},
		{"1d12h", 36 * time.Hour},
		{"2w 3d", 2*Week + 3*Day},
		{"1H 30M", 90 * time.Minute},
		{"10", 10 * time.Minute},
		{"1y2mo3w4d", Year + 2*Month + 3*Week + 4*Day},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.input)
		if err != nil {
			t.Errorf("ParseDuration(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "1x", "-5m", "0", "0m", "1d banana", "forever"} {
		if _, err := ParseDuration(input); err == nil {
			t.Errorf("ParseDuration(%q) should fail", input)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Minute, "1 hour 30 minutes"},
		{36 * time.Hour, "1 day 12 hours"},
		{Week, "1 week"},
		{Year + Month, "1 year 1 month"},
		{45 * time.Second, "45 seconds"},
		{500 * time.Millisecond, "0 seconds"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
