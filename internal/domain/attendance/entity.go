package attendance

import (
	"time"
)

// Type identifies a clock event. Approvals carry the same type.
type Type string

const (
	TypeClockIn  Type = "ClockIn"
	TypeClockOut Type = "ClockOut"
)

// State is the daily lifecycle of an employment record's attendance.
type State string

const (
	StateNoAttendance State = "no_attendance"
	StateClockedIn    State = "clocked_in"
	StateClosed       State = "closed"
	StateInconsistent State = "inconsistent"
)

// Outcome tells the caller which transition a clock event performed.
type Outcome string

const (
	OutcomeClockedIn  Outcome = "clock_in"
	OutcomeClockedOut Outcome = "clock_out"
)

type Attendance struct {
	ID             string
	EmployeeID     string
	WorkDate       time.Time
	ClockIn        *time.Time
	IsLateClockIn  bool
	ClockInPhoto   *string
	ClockOut       *time.Time
	IsLateClockOut bool
	ClockOutPhoto  *string
	ClockOutRemark *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StateOf derives the daily state from the day's record, nil meaning no record yet.
func StateOf(a *Attendance) State {
	switch {
	case a == nil:
		return StateNoAttendance
	case a.ClockIn != nil && a.ClockOut != nil:
		return StateClosed
	case a.ClockIn != nil:
		return StateClockedIn
	default:
		return StateInconsistent
	}
}
