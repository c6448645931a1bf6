package approval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type ApprovalServiceImpl struct {
	transactor database.Transactor
	approval.ApprovalRepository
	employee.EmployeeRepository
	clock clock.Clock
}

func NewApprovalService(
	transactor database.Transactor,
	approvalRepo approval.ApprovalRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
) approval.ApprovalService {
	return &ApprovalServiceImpl{
		transactor:         transactor,
		ApprovalRepository: approvalRepo,
		EmployeeRepository: employeeRepo,
		clock:              clk,
	}
}

// Create implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Create(ctx context.Context, attendanceID string, eventType attendance.Type) (approval.Approval, error) {
	if eventType != attendance.TypeClockIn && eventType != attendance.TypeClockOut {
		return approval.Approval{}, fmt.Errorf("create approval: %w: %q", schedule.ErrUnknownEventType, eventType)
	}

	created, err := s.ApprovalRepository.Create(ctx, approval.Approval{
		AttendanceID: attendanceID,
		Type:         eventType,
		Status:       approval.StatusPending,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		return approval.Approval{}, err
	}

	return created, nil
}

// Approve implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Approve(ctx context.Context, req approval.DecisionRequest) (approval.ApprovalResponse, error) {
	return s.decide(ctx, req, approval.DecisionApprove)
}

// Reject implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Reject(ctx context.Context, req approval.DecisionRequest) (approval.ApprovalResponse, error) {
	return s.decide(ctx, req, approval.DecisionReject)
}

// decide refuses callers who are not a PIC before the id is looked up, then
// re-reads the approval under a row lock, checks the caller's PIC link
// and the transition table, then applies a status-guarded update.
// Not authorized and not actionable both surface as ErrApprovalNotActionable.
func (s *ApprovalServiceImpl) decide(ctx context.Context, req approval.DecisionRequest, decision approval.Decision) (approval.ApprovalResponse, error) {
	if err := req.Validate(decision); err != nil {
		return approval.ApprovalResponse{}, err
	}

	acting, err := s.EmployeeRepository.GetActiveByUserID(ctx, req.UserID)
	if err != nil {
		return approval.ApprovalResponse{}, err
	}
	if !acting.IsPIC {
		return approval.ApprovalResponse{}, approval.ErrApprovalNotActionable
	}

	var updated approval.Approval
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.ApprovalRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		authorized, err := s.IsAuthorizedPIC(txCtx, acting.ID, current.EmployeeID)
		if err != nil {
			return err
		}

		next, allowed := current.Status.Next(decision)
		if !authorized || !allowed {
			return approval.ErrApprovalNotActionable
		}

		updated, err = s.ApprovalRepository.UpdateStatus(txCtx, approval.StatusUpdate{
			ID:        current.ID,
			From:      current.Status,
			To:        next,
			Remark:    req.Remark,
			DecidedBy: acting.ID,
			DecidedAt: s.clock.Now(),
		})
		return err
	})
	if err != nil {
		return approval.ApprovalResponse{}, err
	}

	slog.Info("Attendance approval decided",
		"approval_id", updated.ID,
		"decision", string(decision),
		"status", string(updated.Status),
		"pic_employee_id", acting.ID,
	)

	return approval.NewApprovalResponse(updated), nil
}

// ListForPIC implements approval.ApprovalService.
func (s *ApprovalServiceImpl) ListForPIC(ctx context.Context, userID string, filter approval.ApprovalFilter) ([]approval.DetailResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	acting, err := s.EmployeeRepository.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details, err := s.ApprovalRepository.ListByPIC(ctx, acting.ID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]approval.DetailResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, approval.NewDetailResponse(d))
	}
	return responses, nil
}

// Get implements approval.ApprovalService.
func (s *ApprovalServiceImpl) Get(ctx context.Context, userID string, id string) (approval.DetailResponse, error) {
	detail, err := s.getAuthorizedDetail(ctx, userID, id)
	if err != nil {
		return approval.DetailResponse{}, err
	}
	return approval.NewDetailResponse(detail), nil
}

// GetEvidence implements approval.ApprovalService.
func (s *ApprovalServiceImpl) GetEvidence(ctx context.Context, userID string, id string) (string, error) {
	detail, err := s.getAuthorizedDetail(ctx, userID, id)
	if err != nil {
		return "", err
	}

	photo := detail.Attendance.ClockInPhoto
	if detail.Approval.Type == attendance.TypeClockOut {
		photo = detail.Attendance.ClockOutPhoto
	}
	if photo == nil || *photo == "" {
		return "", approval.ErrEvidenceNotFound
	}
	return *photo, nil
}

// getAuthorizedDetail loads an approval for a caller who must be a direct PIC
// of its employee. A caller who is not a PIC is refused before the id is looked up.
func (s *ApprovalServiceImpl) getAuthorizedDetail(ctx context.Context, userID string, id string) (approval.Detail, error) {
	if !validator.IsValidUUID(id) {
		return approval.Detail{}, validator.ValidationErrors{{
			Field:   "id",
			Message: "approval id must be a valid UUID",
		}}
	}

	acting, err := s.EmployeeRepository.GetActiveByUserID(ctx, userID)
	if err != nil {
		return approval.Detail{}, err
	}
	if !acting.IsPIC {
		return approval.Detail{}, approval.ErrNotPersonInCharge
	}

	detail, err := s.ApprovalRepository.GetDetail(ctx, id)
	if err != nil {
		return approval.Detail{}, err
	}

	authorized, err := s.IsAuthorizedPIC(ctx, acting.ID, detail.Employee.ID)
	if err != nil {
		return approval.Detail{}, err
	}
	if !authorized {
		return approval.Detail{}, approval.ErrNotPersonInCharge
	}

	return detail, nil
}

// IsAuthorizedPIC implements approval.ApprovalService. Only a direct PIC link
// counts; a PIC's own PIC gains nothing over the PIC's subordinates.
func (s *ApprovalServiceImpl) IsAuthorizedPIC(ctx context.Context, actingEmployeeID string, targetEmployeeID string) (bool, error) {
	if actingEmployeeID == "" || targetEmployeeID == "" || actingEmployeeID == targetEmployeeID {
		return false, nil
	}
	return s.EmployeeRepository.IsPersonInCharge(ctx, actingEmployeeID, targetEmployeeID)
}
