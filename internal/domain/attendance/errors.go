package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNoCheckIn         = errors.New("no check-in recorded for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("invalid attendance status")
	ErrInvalidPeriod      = errors.New("invalid summary period")
	ErrForbidden          = errors.New("not allowed to mark attendance")
)
