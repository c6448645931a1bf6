package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyFullyAttended = errors.New("you already fully attend today")
	ErrInconsistentState    = errors.New("attendance record is in an inconsistent state")
	ErrAttendanceExists     = errors.New("attendance for this day already exists")
	ErrAlreadyClockedOut    = errors.New("attendance has already been clocked out")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
)
