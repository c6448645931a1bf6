package validator

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is returned by request validators and rendered as a 422 body.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// ToMap keys messages by field. A later message for the same field wins.
func (v ValidationErrors) ToMap() map[string]string {
	fields := make(map[string]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = fe.Message
	}
	return fields
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Version nibble fixed to 7, variant bits 10xx.
var uuidV7Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidUUID accepts UUIDv7 only, in either letter case.
func IsValidUUID(id string) bool {
	return uuidV7Pattern.MatchString(strings.ToLower(id))
}

const dateLayout = "2006-01-02"

// IsValidDate parses a YYYY-MM-DD calendar date in UTC.
func IsValidDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, s)
	return d, err == nil
}

var dateTimeLayouts = []string{time.RFC3339, time.RFC3339Nano}

// IsValidDateTime parses an ISO-8601 timestamp carrying a zone offset,
// e.g. "2025-03-10T07:30:00+07:00" or "2025-03-10T00:30:00Z".
func IsValidDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func IsInSlice(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}
