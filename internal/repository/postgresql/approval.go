package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type approvalRepository struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) approval.ApprovalRepository {
	return &approvalRepository{db: db}
}

const approvalColumns = `
	ap.id, ap.attendance_id, ap.type, ap.status, ap.remark, ap.decided_by, ap.decided_at,
	ap.created_at, ap.updated_at, a.employee_id
`

const detailColumns = approvalColumns + `,
	a.id, a.employee_id, a.work_date,
	a.clock_in, a.is_late_clock_in, a.clock_in_photo,
	a.clock_out, a.is_late_clock_out, a.clock_out_photo, a.clock_out_remark,
	a.created_at, a.updated_at,
	e.id, e.user_id, e.full_name, e.email, e.position_name, e.working_hour,
	e.is_active, e.is_pic, e.created_at, e.updated_at
`

func approvalDest(ap *approval.Approval) []interface{} {
	return []interface{}{
		&ap.ID, &ap.AttendanceID, &ap.Type, &ap.Status, &ap.Remark, &ap.DecidedBy, &ap.DecidedAt,
		&ap.CreatedAt, &ap.UpdatedAt, &ap.EmployeeID,
	}
}

func scanDetail(row pgx.Row) (approval.Detail, error) {
	var d approval.Detail
	dest := approvalDest(&d.Approval)
	dest = append(dest,
		&d.Attendance.ID, &d.Attendance.EmployeeID, &d.Attendance.WorkDate,
		&d.Attendance.ClockIn, &d.Attendance.IsLateClockIn, &d.Attendance.ClockInPhoto,
		&d.Attendance.ClockOut, &d.Attendance.IsLateClockOut, &d.Attendance.ClockOutPhoto, &d.Attendance.ClockOutRemark,
		&d.Attendance.CreatedAt, &d.Attendance.UpdatedAt,
		&d.Employee.ID, &d.Employee.UserID, &d.Employee.FullName, &d.Employee.Email, &d.Employee.PositionName, &d.Employee.WorkingHour,
		&d.Employee.IsActive, &d.Employee.IsPIC, &d.Employee.CreatedAt, &d.Employee.UpdatedAt,
	)
	err := row.Scan(dest...)
	return d, err
}

// Create implements approval.ApprovalRepository.
func (r *approvalRepository) Create(ctx context.Context, newApproval approval.Approval) (approval.Approval, error) {
	q := GetQuerier(ctx, r.db)

	if newApproval.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return approval.Approval{}, fmt.Errorf("failed to generate approval id: %w", err)
		}
		newApproval.ID = id.String()
	}

	query := `
		WITH ap AS (
			INSERT INTO attendance_approvals (id, attendance_id, type, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING *
		)
		SELECT ` + approvalColumns + `
		FROM ap
		JOIN attendances a ON a.id = ap.attendance_id
	`

	var created approval.Approval
	err := q.QueryRow(ctx, query,
		newApproval.ID,
		newApproval.AttendanceID,
		newApproval.Type,
		newApproval.Status,
		newApproval.CreatedAt,
	).Scan(approvalDest(&created)...)
	if err != nil {
		if isUniqueViolation(err, "attendance_approvals_attendance_type_key") {
			return approval.Approval{}, approval.ErrApprovalExists
		}
		return approval.Approval{}, fmt.Errorf("failed to create attendance approval: %w", err)
	}

	return created, nil
}

// GetByIDForUpdate implements approval.ApprovalRepository.
func (r *approvalRepository) GetByIDForUpdate(ctx context.Context, id string) (approval.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM attendance_approvals ap
		JOIN attendances a ON a.id = ap.attendance_id
		WHERE ap.id = $1
		FOR UPDATE OF ap
	`

	var ap approval.Approval
	if err := q.QueryRow(ctx, query, id).Scan(approvalDest(&ap)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Approval{}, approval.ErrApprovalNotFound
		}
		return approval.Approval{}, fmt.Errorf("failed to get attendance approval %s: %w", id, err)
	}

	return ap, nil
}

// UpdateStatus implements approval.ApprovalRepository.
func (r *approvalRepository) UpdateStatus(ctx context.Context, update approval.StatusUpdate) (approval.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH ap AS (
			UPDATE attendance_approvals
			SET status = $3, remark = $4, decided_by = $5, decided_at = $6, updated_at = $6
			WHERE id = $1 AND status = $2
			RETURNING *
		)
		SELECT ` + approvalColumns + `
		FROM ap
		JOIN attendances a ON a.id = ap.attendance_id
	`

	var updated approval.Approval
	err := q.QueryRow(ctx, query,
		update.ID,
		update.From,
		update.To,
		update.Remark,
		update.DecidedBy,
		update.DecidedAt,
	).Scan(approvalDest(&updated)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Approval{}, approval.ErrApprovalNotActionable
		}
		return approval.Approval{}, fmt.Errorf("failed to update attendance approval %s: %w", update.ID, err)
	}

	return updated, nil
}

// GetDetail implements approval.ApprovalRepository.
func (r *approvalRepository) GetDetail(ctx context.Context, id string) (approval.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + detailColumns + `
		FROM attendance_approvals ap
		JOIN attendances a ON a.id = ap.attendance_id
		JOIN employees e ON e.id = a.employee_id
		WHERE ap.id = $1
	`

	d, err := scanDetail(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return approval.Detail{}, approval.ErrApprovalNotFound
		}
		return approval.Detail{}, fmt.Errorf("failed to get attendance approval detail %s: %w", id, err)
	}

	return d, nil
}

// ListByPIC implements approval.ApprovalRepository.
func (r *approvalRepository) ListByPIC(ctx context.Context, picEmployeeID string, filter approval.ApprovalFilter) ([]approval.Detail, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{picEmployeeID}
	query := `
		SELECT ` + detailColumns + `
		FROM attendance_approvals ap
		JOIN attendances a ON a.id = ap.attendance_id
		JOIN employees e ON e.id = a.employee_id
		JOIN employee_person_in_charges pic ON pic.employee_id = e.id
		WHERE pic.pic_employee_id = $1
	`
	if filter.Status != nil && *filter.Status != "" {
		args = append(args, *filter.Status)
		query += ` AND ap.status = $2`
	}
	query += ` ORDER BY ap.created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance approvals: %w", err)
	}
	defer rows.Close()

	details := []approval.Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance approval: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

// ListByAttendance implements approval.ApprovalRepository.
func (r *approvalRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]approval.Approval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + approvalColumns + `
		FROM attendance_approvals ap
		JOIN attendances a ON a.id = ap.attendance_id
		WHERE ap.attendance_id = $1
		ORDER BY ap.created_at
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals of attendance %s: %w", attendanceID, err)
	}
	defer rows.Close()

	approvals := []approval.Approval{}
	for rows.Next() {
		var ap approval.Approval
		if err := rows.Scan(approvalDest(&ap)...); err != nil {
			return nil, fmt.Errorf("failed to scan attendance approval: %w", err)
		}
		approvals = append(approvals, ap)
	}

	return approvals, rows.Err()
}
