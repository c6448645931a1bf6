package schedule

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// IsLate reports whether a clock event breaks the working hour policy.
// The threshold is the event's own calendar day at HH:00:00 in at's location.
//
// Clock-in is late when strictly after the clock-in hour. Clock-out is flagged
// when strictly before the clock-out hour, i.e. the employee left early; the
// stored flag is still called "late clock-out".
func IsLate(at time.Time, workingHour WorkingHour, eventType attendance.Type) (bool, error) {
	thresholds := ThresholdsFor(workingHour)

	switch eventType {
	case attendance.TypeClockIn:
		return at.After(thresholdOn(at, thresholds.ClockInHour)), nil
	case attendance.TypeClockOut:
		return at.Before(thresholdOn(at, thresholds.ClockOutHour)), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
}

func thresholdOn(at time.Time, hour int) time.Time {
	return time.Date(at.Year(), at.Month(), at.Day(), hour, 0, 0, 0, at.Location())
}
