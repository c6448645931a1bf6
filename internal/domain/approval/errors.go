package approval

import "errors"

var (
	ErrApprovalNotFound      = errors.New("attendance approval not found")
	ErrApprovalNotActionable = errors.New("attendance approval cannot be updated in its current status, or you are not the PIC")
	ErrNotPersonInCharge     = errors.New("you are not the PIC of this attendance")
	ErrApprovalExists        = errors.New("approval for this attendance event already exists")
	ErrEvidenceNotFound      = errors.New("attendance evidence not found")
)
