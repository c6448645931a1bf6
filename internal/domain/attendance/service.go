package attendance

import (
	"context"
)

// AttendanceService defines business logic for the daily clock lifecycle
type AttendanceService interface {
	// Attend resolves the caller's active employment record and records a clock event for it
	Attend(ctx context.Context, req ClockRequest) (ClockResponse, error)

	// RecordClockEvent runs the clock-in/clock-out state machine for one employment record
	RecordClockEvent(ctx context.Context, employeeID string, event ClockEvent) (ClockResponse, error)

	// GetToday reports the caller's attendance state for the current day
	GetToday(ctx context.Context, userID string) (TodayResponse, error)

	// ListMine lists the caller's attendance history
	ListMine(ctx context.Context, userID string, filter MyAttendanceFilter) ([]AttendanceResponse, error)
}
