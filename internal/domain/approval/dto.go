package approval

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type DecisionRequest struct {
	ID     string `json:"-"`
	UserID string `json:"-"`
	Remark string `json:"remark"`
}

func (r *DecisionRequest) Validate(d Decision) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "approval id is required",
		})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "approval id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Remark) {
		errs = append(errs, validator.ValidationError{
			Field:   "remark",
			Message: "Remark for " + string(d) + " is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApprovalFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *ApprovalFilter) Validate() error {
	if f.Status == nil || *f.Status == "" {
		return nil
	}
	if !validator.IsInSlice(*f.Status, StatusValues) {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be one of Pending, Approved, Rejected",
		}}
	}
	return nil
}

type ApprovalResponse struct {
	ID           string          `json:"id"`
	AttendanceID string          `json:"attendance_id"`
	Type         attendance.Type `json:"type"`
	Status       Status          `json:"status"`
	Remark       *string         `json:"remark,omitempty"`
	DecidedBy    *string         `json:"decided_by,omitempty"`
	DecidedAt    *string         `json:"decided_at,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type EmployeeSummary struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	PositionName *string `json:"position_name,omitempty"`
	WorkingHour  string  `json:"working_hour"`
}

type DetailResponse struct {
	ApprovalResponse
	Attendance attendance.AttendanceResponse `json:"attendance"`
	Employee   EmployeeSummary               `json:"employee"`
}

func NewApprovalResponse(a Approval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:           a.ID,
		AttendanceID: a.AttendanceID,
		Type:         a.Type,
		Status:       a.Status,
		Remark:       a.Remark,
		DecidedBy:    a.DecidedBy,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.DecidedAt != nil {
		decidedAt := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}
	return resp
}

func NewDetailResponse(d Detail) DetailResponse {
	return DetailResponse{
		ApprovalResponse: NewApprovalResponse(d.Approval),
		Attendance:       attendance.NewAttendanceResponse(d.Attendance),
		Employee: EmployeeSummary{
			ID:           d.Employee.ID,
			FullName:     d.Employee.FullName,
			Email:        d.Employee.Email,
			PositionName: d.Employee.PositionName,
			WorkingHour:  string(d.Employee.WorkingHour),
		},
	}
}
