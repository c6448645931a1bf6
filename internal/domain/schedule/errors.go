package schedule

import "errors"

var (
	ErrUnknownEventType   = errors.New("unknown attendance event type")
	ErrInvalidWorkingHour = errors.New("invalid working hour")
)
