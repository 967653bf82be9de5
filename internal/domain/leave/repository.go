package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository persists leave requests. The store carries an
// exclusion constraint over (employee_id, daterange) for non-terminal
// statuses, so a racing insert surfaces as ErrOverlappingLeave.
type LeaveRequestRepository interface {
	// Create inserts a pending request. Returns ErrOverlappingLeave when the
	// span collides with an existing pending/approved request.
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// HasOverlap runs the closed-interval overlap test against pending and
	// approved requests for the employee.
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// Decide transitions the request out of pending in one conditional
	// write. Returns ErrAlreadyProcessed when the request has already left
	// pending.
	Decide(ctx context.Context, id string, status LeaveRequestStatus, reviewerID string, decidedAt time.Time, rejectionReason *string) (LeaveRequest, error)

	// Cancel transitions a pending request to cancelled, same conditional
	// semantics as Decide.
	Cancel(ctx context.Context, id string, cancelledAt time.Time) (LeaveRequest, error)

	// ApprovedDaysByType sums TotalDays of approved requests per leave type
	// for the employee's year.
	ApprovedDaysByType(ctx context.Context, employeeID string, year int) (map[LeaveType]float64, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
}
