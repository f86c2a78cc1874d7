package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Calendar units are fixed-width: a month is 30 days, a year 365.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

var durationToken = regexp.MustCompile(`(?i)(\d+)\s*(mo|[ywdhms])`)

var unitSize = map[string]time.Duration{
	"y":  Year,
	"mo": Month,
	"w":  Week,
	"d":  Day,
	"h":  time.Hour,
	"m":  time.Minute,
	"s":  time.Second,
}

var ErrBadDuration = errors.New("utils: unparsable duration")

// ParseDuration reads compact duration strings such as "30m", "1d12h" or
// "2w 3d". Units are y, mo, w, d, h, m and s; tokens may be separated by
// spaces or run together. A bare number counts as minutes.
func ParseDuration(input string) (time.Duration, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrBadDuration
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n <= 0 {
			return 0, ErrBadDuration
		}
		return time.Duration(n) * time.Minute, nil
	}

	matches := durationToken.FindAllStringSubmatchIndex(trimmed, -1)
	if len(matches) == 0 {
		return 0, ErrBadDuration
	}

	// Reject inputs with junk between or around the tokens.
	covered := 0
	var total time.Duration
	for _, m := range matches {
		if strings.TrimSpace(trimmed[covered:m[0]]) != "" {
			return 0, ErrBadDuration
		}
		covered = m[1]

		n, err := strconv.ParseInt(trimmed[m[2]:m[3]], 10, 64)
		if err != nil || n < 0 {
			return 0, ErrBadDuration
		}
		unit := strings.ToLower(trimmed[m[4]:m[5]])
		total += time.Duration(n) * unitSize[unit]
	}
	if strings.TrimSpace(trimmed[covered:]) != "" {
		return 0, ErrBadDuration
	}
	if total <= 0 {
		return 0, ErrBadDuration
	}
	return total, nil
}

type formatUnit struct {
	size     time.Duration
	singular string
}

var formatUnits = []formatUnit{
	{Year, "year"},
	{Month, "month"},
	{Week, "week"},
	{Day, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
	{time.Second, "second"},
}

// FormatDuration renders a duration as its two most significant units,
// e.g. "1 day 12 hours".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}

	var parts []string
	for _, u := range formatUnits {
		if len(parts) == 2 {
			break
		}
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		name := u.singular
		if n != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	return strings.Join(parts, " ")
}
