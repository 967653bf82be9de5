package leave

import (
	"time"
)

// LeaveType enumerates the leave categories with annual entitlements.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypePaternity LeaveType = "paternity"
	LeaveTypeEmergency LeaveType = "emergency"
	LeaveTypeCasual    LeaveType = "casual"
)

// AllLeaveTypes returns the valid leave types.
func AllLeaveTypes() []LeaveType {
	return []LeaveType{
		LeaveTypeAnnual,
		LeaveTypeSick,
		LeaveTypeMaternity,
		LeaveTypePaternity,
		LeaveTypeEmergency,
		LeaveTypeCasual,
	}
}

// ValidLeaveType reports whether t is a known leave type.
func ValidLeaveType(t LeaveType) bool {
	for _, known := range AllLeaveTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Entitlements maps each leave type to its annual day allowance.
var Entitlements = map[LeaveType]float64{
	LeaveTypeAnnual:    21,
	LeaveTypeSick:      10,
	LeaveTypeCasual:    7,
	LeaveTypeMaternity: 180,
	LeaveTypePaternity: 15,
	LeaveTypeEmergency: 5,
}

// LeaveRequestStatus is the approval state of a request. Approved, Rejected
// and Cancelled are terminal.
type LeaveRequestStatus string

const (
	LeaveRequestStatusPending   LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved  LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected  LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled LeaveRequestStatus = "cancelled"
)

// LeaveRequest entity. Two requests for the same employee in
// {pending, approved} may never overlap on any day.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType

	StartDate time.Time // inclusive, day granularity
	EndDate   time.Time // inclusive
	TotalDays int

	Reason string

	Status          LeaveRequestStatus
	AppliedDate     time.Time
	ApprovedBy      *string
	ApprovedDate    *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	EmployeeName *string
}

// Overlaps reports whether the closed day-interval of r shares any day with
// [start, end]. Boundary-touching ranges overlap.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}
