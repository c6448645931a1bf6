package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("user not registered")
	ErrNoActiveEmployment  = errors.New("account not found")
	ErrEmployeeNotPIC      = errors.New("employee is not a person in charge")
	ErrActiveRecordExists  = errors.New("user already has an active employment record")
	ErrSelfPICNotPermitted = errors.New("employee cannot be their own person in charge")
)
