package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
)

// Employee is an employment record: one person bound to one organization.
// At most one record per user is active at a time.
type Employee struct {
	ID           string
	UserID       string
	FullName     string
	Email        string
	PositionName *string
	WorkingHour  schedule.WorkingHour
	IsActive     bool
	IsPIC        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// PICIDs lists the employment records that supervise this one
	PICIDs []string
}
