package employee

import "context"

// EmployeeRepository is the directory the attendance engine resolves people through.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetActiveByUserID resolves the authenticated user's employment record currently in force
	GetActiveByUserID(ctx context.Context, userID string) (Employee, error)

	// LockByID loads the record and holds a row lock on it until the transaction ends.
	// Concurrent clock events for the same employee serialize on this lock.
	LockByID(ctx context.Context, id string) (Employee, error)

	ListPICIDs(ctx context.Context, employeeID string) ([]string, error)

	// IsPersonInCharge reports a direct PIC link from picEmployeeID to employeeID
	IsPersonInCharge(ctx context.Context, picEmployeeID string, employeeID string) (bool, error)
}
