package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
)

type approvalRepository struct {
	store *Store
}

// withOwner fills in the employee owning the approval's attendance.
func (r *approvalRepository) withOwner(ap approval.Approval) approval.Approval {
	ap.EmployeeID = r.store.data.attendances[ap.AttendanceID].EmployeeID
	return ap
}

func (r *approvalRepository) detail(ap approval.Approval) approval.Detail {
	att := r.store.data.attendances[ap.AttendanceID]
	return approval.Detail{
		Approval:   r.withOwner(ap),
		Attendance: att,
		Employee:   r.store.withPICs(r.store.data.employees[att.EmployeeID]),
	}
}

// Create implements approval.ApprovalRepository.
func (r *approvalRepository) Create(ctx context.Context, ap approval.Approval) (approval.Approval, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, existing := range r.store.data.approvals {
		if existing.AttendanceID == ap.AttendanceID && existing.Type == ap.Type {
			return approval.Approval{}, approval.ErrApprovalExists
		}
	}

	if ap.ID == "" {
		id, err := newID()
		if err != nil {
			return approval.Approval{}, err
		}
		ap.ID = id
	}
	ap.UpdatedAt = ap.CreatedAt
	ap.EmployeeID = ""

	r.store.data.approvals[ap.ID] = ap
	return r.withOwner(ap), nil
}

// GetByIDForUpdate implements approval.ApprovalRepository.
func (r *approvalRepository) GetByIDForUpdate(ctx context.Context, id string) (approval.Approval, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	ap, ok := r.store.data.approvals[id]
	if !ok {
		return approval.Approval{}, approval.ErrApprovalNotFound
	}
	return r.withOwner(ap), nil
}

// UpdateStatus implements approval.ApprovalRepository.
func (r *approvalRepository) UpdateStatus(ctx context.Context, update approval.StatusUpdate) (approval.Approval, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	ap, ok := r.store.data.approvals[update.ID]
	if !ok || ap.Status != update.From {
		return approval.Approval{}, approval.ErrApprovalNotActionable
	}

	remark := update.Remark
	decidedBy := update.DecidedBy
	decidedAt := update.DecidedAt
	ap.Status = update.To
	ap.Remark = &remark
	ap.DecidedBy = &decidedBy
	ap.DecidedAt = &decidedAt
	ap.UpdatedAt = decidedAt

	r.store.data.approvals[ap.ID] = ap
	return r.withOwner(ap), nil
}

// GetDetail implements approval.ApprovalRepository.
func (r *approvalRepository) GetDetail(ctx context.Context, id string) (approval.Detail, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	ap, ok := r.store.data.approvals[id]
	if !ok {
		return approval.Detail{}, approval.ErrApprovalNotFound
	}
	return r.detail(ap), nil
}

// ListByPIC implements approval.ApprovalRepository.
func (r *approvalRepository) ListByPIC(ctx context.Context, picEmployeeID string, filter approval.ApprovalFilter) ([]approval.Detail, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	details := []approval.Detail{}
	for _, ap := range r.store.data.approvals {
		if filter.Status != nil && *filter.Status != "" && string(ap.Status) != *filter.Status {
			continue
		}
		owner := r.store.data.attendances[ap.AttendanceID].EmployeeID
		if _, ok := r.store.data.picLinks[owner][picEmployeeID]; !ok {
			continue
		}
		details = append(details, r.detail(ap))
	}

	sort.Slice(details, func(i, j int) bool {
		a, b := details[i].Approval, details[j].Approval
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return details, nil
}

// ListByAttendance implements approval.ApprovalRepository.
func (r *approvalRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]approval.Approval, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	approvals := []approval.Approval{}
	for _, ap := range r.store.data.approvals {
		if ap.AttendanceID == attendanceID {
			approvals = append(approvals, r.withOwner(ap))
		}
	}

	sort.Slice(approvals, func(i, j int) bool {
		if approvals[i].CreatedAt.Equal(approvals[j].CreatedAt) {
			return approvals[i].ID < approvals[j].ID
		}
		return approvals[i].CreatedAt.Before(approvals[j].CreatedAt)
	})
	return approvals, nil
}
