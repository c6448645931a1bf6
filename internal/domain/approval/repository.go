package approval

import "context"

type ApprovalRepository interface {
	Create(ctx context.Context, approval Approval) (Approval, error)

	// GetByIDForUpdate loads the approval with its owning employee and locks the row
	// until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Approval, error)

	// UpdateStatus applies the update only if the status still equals update.From,
	// returning ErrApprovalNotActionable otherwise.
	UpdateStatus(ctx context.Context, update StatusUpdate) (Approval, error)

	GetDetail(ctx context.Context, id string) (Detail, error)

	// ListByPIC returns approvals whose attendance owner lists picEmployeeID as a PIC
	ListByPIC(ctx context.Context, picEmployeeID string, filter ApprovalFilter) ([]Detail, error)

	ListByAttendance(ctx context.Context, attendanceID string) ([]Approval, error)
}
