package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidDateRange     = errors.New("invalid leave date range")
	ErrOverlappingLeave     = errors.New("overlapping leave request exists")
	ErrAlreadyProcessed     = errors.New("leave request already processed")
	ErrForbidden            = errors.New("not allowed to act on this leave request")
	ErrInvalidLeaveType     = errors.New("invalid leave type")
	ErrInvalidDecision      = errors.New("decision must be approved or rejected")
)
