package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const dateLayout = "2006-01-02"

type attendanceRepository struct {
	store *Store
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	day := att.WorkDate.Format(dateLayout)
	for _, existing := range r.store.data.attendances {
		if existing.EmployeeID == att.EmployeeID && existing.WorkDate.Format(dateLayout) == day {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
	}

	if att.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Attendance{}, err
		}
		att.ID = id
	}
	att.UpdatedAt = att.CreatedAt

	r.store.data.attendances[att.ID] = att
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	day := workDate.Format(dateLayout)
	for _, att := range r.store.data.attendances {
		if att.EmployeeID == employeeID && att.WorkDate.Format(dateLayout) == day {
			found := att
			return &found, nil
		}
	}
	return nil, nil
}

// UpdateClockOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpdateClockOut(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	current, ok := r.store.data.attendances[att.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if current.ClockIn == nil || current.ClockOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedOut
	}

	current.ClockOut = att.ClockOut
	current.IsLateClockOut = att.IsLateClockOut
	current.ClockOutPhoto = att.ClockOutPhoto
	current.ClockOutRemark = att.ClockOutRemark
	current.UpdatedAt = att.UpdatedAt

	r.store.data.attendances[att.ID] = current
	return current, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	result := []attendance.Attendance{}
	for _, att := range r.store.data.attendances {
		if att.EmployeeID != employeeID {
			continue
		}
		day := att.WorkDate.Format(dateLayout)
		if filter.StartDate != nil && *filter.StartDate != "" && day < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && *filter.EndDate != "" && day > *filter.EndDate {
			continue
		}
		result = append(result, att)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WorkDate.After(result[j].WorkDate)
	})
	return result, nil
}
