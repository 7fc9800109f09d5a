// Package normalize provides pure canonicalization helpers for caller-supplied
// field values: postal codes and event dates. These run at the tool-dispatch
// boundary before any pricing or availability lookup.
package normalize

import (
	"strings"
	"time"
)

// zipKeys is the priority order in which postal-code-ish argument keys are
// consulted; the first present key wins.
var zipKeys = []string{"zip", "postal", "area", "location", "location_prefix"}

// Zip extracts a 5-digit postal prefix from tool arguments. Digits are pulled
// out of the raw value and truncated to five; a value with no digits at all
// comes back trimmed but otherwise untouched.
func Zip(args map[string]any) string {
	var raw string
	for _, key := range zipKeys {
		if v, ok := args[key]; ok {
			if s := toString(v); s != "" {
				raw = s
				break
			}
		}
	}
	if raw == "" {
		return ""
	}

	raw = strings.TrimSpace(raw)
	var digits strings.Builder
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	if digits.Len() == 0 {
		return raw
	}
	d := digits.String()
	if len(d) > 5 {
		d = d[:5]
	}
	return d
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		return ""
	}
}

var weekdays = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// mondayWeekday returns the day of week with Monday = 0.
func mondayWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// Date resolves relative weekday expressions to ISO dates. "next friday"
// becomes the date of the next Friday strictly after today in loc; if today
// already is the target weekday the result rolls a full week forward, so the
// function never returns today's date. ISO dates pass through; anything else
// is returned unchanged; consumers treat an unparseable value as a
// validation failure only when it is used as a pricing key.
func Date(s string, now func() time.Time, loc *time.Location) string {
	if s == "" {
		return s
	}
	lowered := strings.ToLower(strings.TrimSpace(s))

	if rest, ok := strings.CutPrefix(lowered, "next "); ok {
		if target, known := weekdays[strings.TrimSpace(rest)]; known {
			today := now().In(loc)
			daysAhead := (target - mondayWeekday(today) + 7) % 7
			if daysAhead == 0 {
				daysAhead = 7
			}
			return today.AddDate(0, 0, daysAhead).Format("2006-01-02")
		}
	}

	if _, err := time.Parse("2006-01-02", lowered); err == nil {
		return lowered
	}
	return s
}
