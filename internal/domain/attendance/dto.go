package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

const maxProofPhotoSize = 10 << 20 // 10MB

type ClockRequest struct {
	UserID     string                `json:"-"`
	Date       string                `json:"date"`
	Photo      string                `json:"photo"`
	Remark     *string               `json:"remark,omitempty"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "Date is required",
		})
	} else if _, ok := validator.IsValidDateTime(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be an ISO8601 timestamp",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > maxProofPhotoSize {
			errs = append(errs, validator.ValidationError{
				Field:   "photo",
				Message: "attendance proof photo size must not exceed 10MB",
			})
		}
	} else if validator.IsEmpty(r.Photo) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "Photo is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Event converts a validated request into the clock event it describes.
func (r *ClockRequest) Event() ClockEvent {
	at, _ := validator.IsValidDateTime(r.Date)
	return ClockEvent{
		At:     at,
		Photo:  r.Photo,
		Remark: r.Remark,
	}
}

// ClockEvent is a single clock action against an employment record.
type ClockEvent struct {
	At     time.Time
	Photo  string
	Remark *string
}

func (e ClockEvent) Validate() error {
	var errs validator.ValidationErrors

	if e.At.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "Date is required",
		})
	}
	if validator.IsEmpty(e.Photo) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "Photo is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasRemark reports whether a non-blank clock-out remark was supplied.
func (e ClockEvent) HasRemark() bool {
	return e.Remark != nil && !validator.IsEmpty(*e.Remark)
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	WorkDate       string  `json:"work_date"`
	State          State   `json:"state"`
	ClockInTime    *string `json:"clock_in_time,omitempty"`
	IsLateClockIn  bool    `json:"is_late_clock_in"`
	ClockInPhoto   *string `json:"clock_in_photo,omitempty"`
	ClockOutTime   *string `json:"clock_out_time,omitempty"`
	IsLateClockOut bool    `json:"is_late_clock_out"`
	ClockOutPhoto  *string `json:"clock_out_photo,omitempty"`
	ClockOutRemark *string `json:"clock_out_remark,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// ApprovalSummary is the approval request a clock event enqueued.
type ApprovalSummary struct {
	ID     string `json:"id"`
	Type   Type   `json:"type"`
	Status string `json:"status"`
}

type ClockResponse struct {
	Outcome    Outcome            `json:"outcome"`
	Attendance AttendanceResponse `json:"attendance"`
	Approval   ApprovalSummary    `json:"approval"`
}

// Message is the human readable result of the clock event.
func (r ClockResponse) Message() string {
	if r.Outcome == OutcomeClockedOut {
		return "You successfully Clock Out"
	}
	return "You successfully Clock In"
}

type TodayResponse struct {
	Date       string              `json:"date"`
	State      State               `json:"state"`
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var hasStart, hasEnd bool

	if f.StartDate != nil && *f.StartDate != "" {
		if start, hasStart = validator.IsValidDate(*f.StartDate); !hasStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if end, hasEnd = validator.IsValidDate(*f.EndDate); !hasEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if hasStart && hasEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// NewAttendanceResponse converts an Attendance entity to AttendanceResponse
func NewAttendanceResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             att.ID,
		EmployeeID:     att.EmployeeID,
		WorkDate:       att.WorkDate.Format("2006-01-02"),
		State:          StateOf(&att),
		ClockInTime:    timePtrToString(att.ClockIn),
		IsLateClockIn:  att.IsLateClockIn,
		ClockInPhoto:   att.ClockInPhoto,
		ClockOutTime:   timePtrToString(att.ClockOut),
		IsLateClockOut: att.IsLateClockOut,
		ClockOutPhoto:  att.ClockOutPhoto,
		ClockOutRemark: att.ClockOutRemark,
		CreatedAt:      att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      att.UpdatedAt.Format(time.RFC3339),
	}
}
