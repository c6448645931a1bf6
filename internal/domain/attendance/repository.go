package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts the day's record. Returns ErrAttendanceExists when the
	// employee already has a record for the same work date.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns nil without error when nothing was recorded that day
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Attendance, error)

	// UpdateClockOut closes an open record. Returns ErrAlreadyClockedOut if it was closed concurrently.
	UpdateClockOut(ctx context.Context, attendance Attendance) (Attendance, error)

	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, error)
}
