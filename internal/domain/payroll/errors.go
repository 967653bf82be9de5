package payroll

import "errors"

var (
	ErrPayrollRecordNotFound = errors.New("payroll record not found")
	ErrAlreadyExists         = errors.New("payroll record already exists for this period")
	ErrImmutable             = errors.New("payroll record already paid, cannot modify")
	ErrInvalidTransition     = errors.New("invalid payroll status transition")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
	ErrForbidden             = errors.New("not allowed to manage payroll")
	ErrNoWorkingDays         = errors.New("period has no working days")
)
