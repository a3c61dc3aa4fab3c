package model

import "time"

// ReviewDateLayout is ISO-8601 without a zone. Dates are rendered in UTC.
const ReviewDateLayout = "2006-01-02T15:04:05"

// ReviewTime converts a unix timestamp, reporting false when it is missing or
// out of range.
func ReviewTime(unix int64) (time.Time, bool) {
	if unix <= 0 {
		return time.Time{}, false
	}
	t := time.Unix(unix, 0).UTC()
	if t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// ReviewDate renders a unix timestamp, or "" when it is missing or out of range.
func ReviewDate(unix int64) string {
	t, ok := ReviewTime(unix)
	if !ok {
		return ""
	}
	return t.Format(ReviewDateLayout)
}
