package utils

import "time"

const isoDateLayout = "2006-01-02"

// ParseISODate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(isoDateLayout, s)
}

// FormatISODate renders a time as an ISO-8601 calendar date.
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}
