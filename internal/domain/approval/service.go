package approval

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type ApprovalService interface {
	// Create enqueues a pending approval. Must run inside the clock event's transaction.
	Create(ctx context.Context, attendanceID string, eventType attendance.Type) (Approval, error)

	Approve(ctx context.Context, req DecisionRequest) (ApprovalResponse, error)
	Reject(ctx context.Context, req DecisionRequest) (ApprovalResponse, error)

	// ListForPIC lists every approval the caller supervises, with attendance and employee attached
	ListForPIC(ctx context.Context, userID string, filter ApprovalFilter) ([]DetailResponse, error)

	Get(ctx context.Context, userID string, id string) (DetailResponse, error)

	// GetEvidence returns the storage key of the photo behind the approval's clock event
	GetEvidence(ctx context.Context, userID string, id string) (string, error)

	IsAuthorizedPIC(ctx context.Context, actingEmployeeID string, targetEmployeeID string) (bool, error)
}
