package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	approvalService approval.ApprovalService
	fileService     file.FileService
	clock           clock.Clock
}

func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	approvalService approval.ApprovalService,
	fileService file.FileService,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		approvalService:      approvalService,
		fileService:          fileService,
		clock:                clk,
	}
}

// Attend implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Attend(ctx context.Context, req attendance.ClockRequest) (attendance.ClockResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetActiveByUserID(ctx, req.UserID)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	event := req.Event()

	var uploaded string
	if req.File != nil && req.FileHeader != nil {
		uploaded, err = s.fileService.UploadAttendanceProof(ctx, emp.ID, clock.Today(s.clock), req.File, req.FileHeader.Filename)
		if err != nil {
			return attendance.ClockResponse{}, err
		}
		event.Photo = uploaded
	}

	resp, err := s.RecordClockEvent(ctx, emp.ID, event)
	if err != nil {
		if uploaded != "" {
			if delErr := s.fileService.DeleteFile(ctx, uploaded); delErr != nil {
				slog.Warn("Failed to delete orphaned attendance proof", "path", uploaded, "error", delErr)
			}
		}
		return attendance.ClockResponse{}, err
	}

	return resp, nil
}

// RecordClockEvent implements attendance.AttendanceService.
//
// The employee row is locked for the whole transaction so concurrent events for
// the same record run one after another; the (employee_id, work_date) unique key
// backs that up. The approval is created in the same transaction, so a failure
// there leaves no attendance change behind.
func (s *AttendanceServiceImpl) RecordClockEvent(ctx context.Context, employeeID string, event attendance.ClockEvent) (attendance.ClockResponse, error) {
	if err := event.Validate(); err != nil {
		return attendance.ClockResponse{}, err
	}

	loc := s.clock.Location()
	now := s.clock.Now()
	workDate := clock.StartOfDay(now, loc)
	at := event.At.In(loc)

	var resp attendance.ClockResponse
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.EmployeeRepository.LockByID(txCtx, employeeID)
		if err != nil {
			return err
		}

		today, err := s.AttendanceRepository.GetByEmployeeAndDate(txCtx, emp.ID, workDate)
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}

		switch attendance.StateOf(today) {
		case attendance.StateNoAttendance:
			resp, err = s.clockIn(txCtx, emp, workDate, at, now, event)
		case attendance.StateClockedIn:
			resp, err = s.clockOut(txCtx, emp, *today, at, now, event)
		case attendance.StateClosed:
			err = attendance.ErrAlreadyFullyAttended
		default:
			err = attendance.ErrInconsistentState
		}
		return err
	})
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	slog.Info("Clock event recorded",
		"employee_id", employeeID,
		"attendance_id", resp.Attendance.ID,
		"outcome", string(resp.Outcome),
		"approval_id", resp.Approval.ID,
	)

	return resp, nil
}

func (s *AttendanceServiceImpl) clockIn(ctx context.Context, emp employee.Employee, workDate, at, now time.Time, event attendance.ClockEvent) (attendance.ClockResponse, error) {
	late, err := schedule.IsLate(at, emp.WorkingHour, attendance.TypeClockIn)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	photo := event.Photo
	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:    emp.ID,
		WorkDate:      workDate,
		ClockIn:       &at,
		IsLateClockIn: late,
		ClockInPhoto:  &photo,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	ap, err := s.approvalService.Create(ctx, created.ID, attendance.TypeClockIn)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to create clock-in approval: %w", err)
	}

	return newClockResponse(attendance.OutcomeClockedIn, created, ap), nil
}

func (s *AttendanceServiceImpl) clockOut(ctx context.Context, emp employee.Employee, open attendance.Attendance, at, now time.Time, event attendance.ClockEvent) (attendance.ClockResponse, error) {
	if !event.HasRemark() {
		return attendance.ClockResponse{}, validator.ValidationErrors{{
			Field:   "remark",
			Message: "Clock Out Remark is required",
		}}
	}

	late, err := schedule.IsLate(at, emp.WorkingHour, attendance.TypeClockOut)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	photo := event.Photo
	remark := *event.Remark
	open.ClockOut = &at
	open.IsLateClockOut = late
	open.ClockOutPhoto = &photo
	open.ClockOutRemark = &remark
	open.UpdatedAt = now

	closed, err := s.AttendanceRepository.UpdateClockOut(ctx, open)
	if err != nil {
		return attendance.ClockResponse{}, err
	}

	ap, err := s.approvalService.Create(ctx, closed.ID, attendance.TypeClockOut)
	if err != nil {
		return attendance.ClockResponse{}, fmt.Errorf("failed to create clock-out approval: %w", err)
	}

	return newClockResponse(attendance.OutcomeClockedOut, closed, ap), nil
}

func newClockResponse(outcome attendance.Outcome, att attendance.Attendance, ap approval.Approval) attendance.ClockResponse {
	return attendance.ClockResponse{
		Outcome:    outcome,
		Attendance: attendance.NewAttendanceResponse(att),
		Approval: attendance.ApprovalSummary{
			ID:     ap.ID,
			Type:   ap.Type,
			Status: string(ap.Status),
		},
	}
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	emp, err := s.EmployeeRepository.GetActiveByUserID(ctx, userID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	today := clock.Today(s.clock)
	att, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:  today.Format("2006-01-02"),
		State: attendance.StateOf(att),
	}
	if att != nil {
		r := attendance.NewAttendanceResponse(*att)
		resp.Attendance = &r
	}
	return resp, nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.EmployeeRepository.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByEmployee(ctx, emp.ID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewAttendanceResponse(r))
	}
	return responses, nil
}
