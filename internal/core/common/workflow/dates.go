package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/project-management/internal"
)

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// Calendar dates are taken as midnight UTC.
func ParseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, internal.NewValidationFieldError(field,
		fmt.Sprintf("%s must be a date like 2025-01-31", field), internal.ErrCodeInvalidDate)
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
