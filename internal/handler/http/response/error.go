package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, employee.ErrNoActiveEmployment):
		Unauthorized(w, "Account not found!")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "User not registered!")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrAlreadyFullyAttended):
		Conflict(w, "You already fully attend!")
	case errors.Is(err, attendance.ErrInconsistentState):
		Conflict(w, "Attendance for today is in an inconsistent state")
	case errors.Is(err, attendance.ErrAttendanceExists),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, approval.ErrApprovalExists):
		Conflict(w, "Attendance was changed by another request, please retry")
	case errors.Is(err, file.ErrInvalidFileType):
		BadRequest(w, "Invalid file type: only jpg, jpeg, png allowed", nil)

	// Approval domain errors
	case errors.Is(err, approval.ErrApprovalNotFound):
		NotFound(w, "Attendance approval not found")
	case errors.Is(err, approval.ErrApprovalNotActionable):
		BadRequest(w, "Approved attendance cannot be updated or You are not the PIC!", nil)
	case errors.Is(err, approval.ErrNotPersonInCharge):
		BadRequest(w, "You are not the PIC of this attendance!", nil)
	case errors.Is(err, approval.ErrEvidenceNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "Attendance photo not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
