package approval

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
}

// Decision is the action a person in charge takes on an approval.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// transitions lists, per decision, the statuses it may be taken from.
// Approved is terminal. A rejected approval can still be approved but not rejected again.
var transitions = map[Decision]struct {
	from []Status
	to   Status
}{
	DecisionApprove: {from: []Status{StatusPending, StatusRejected}, to: StatusApproved},
	DecisionReject:  {from: []Status{StatusPending}, to: StatusRejected},
}

// Next returns the status a decision moves s to, and false if the decision is not allowed from s.
func (s Status) Next(d Decision) (Status, bool) {
	t, ok := transitions[d]
	if !ok {
		return "", false
	}
	for _, from := range t.from {
		if from == s {
			return t.to, true
		}
	}
	return "", false
}

type Approval struct {
	ID           string
	AttendanceID string
	Type         attendance.Type
	Status       Status
	Remark       *string
	DecidedBy    *string
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// EmployeeID owns the attendance; loaded for authorization
	EmployeeID string
}

// StatusUpdate moves an approval from one status to the next.
// The update only applies while the stored status still equals From.
type StatusUpdate struct {
	ID        string
	From      Status
	To        Status
	Remark    string
	DecidedBy string
	DecidedAt time.Time
}

// Detail is an approval with the attendance and employee it concerns
type Detail struct {
	Approval   Approval
	Attendance attendance.Attendance
	Employee   employee.Employee
}
