package leave

import (
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

// ApplyLeaveRequest creates a pending leave request for the acting employee.
type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`
}

func (r ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !ValidLeaveType(LeaveType(r.LeaveType)) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "must be a valid leave type"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReviewLeaveRequest decides a pending request. Reviewer/admin only.
type ReviewLeaveRequest struct {
	Decision        string  `json:"decision"` // approved | rejected
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Decision != string(LeaveRequestStatusApproved) && r.Decision != string(LeaveRequestStatusRejected) {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "must be 'approved' or 'rejected'"})
	}
	if r.Decision == string(LeaveRequestStatusRejected) && (r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason)) {
		errs = append(errs, validator.ValidationError{Field: "rejection_reason", Message: "is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows list queries; zero values mean no filtering.
type ListFilter struct {
	EmployeeID *string
	LeaveType  *string
	Status     *string
	Year       *int
	Page       int
	Limit      int
}

// ============= Response DTOs =============

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	AppliedDate     string  `json:"applied_date"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedDate    *string `json:"approved_date,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type ListLeaveRequestsResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

// TypeBalance is the per-type yearly balance line.
type TypeBalance struct {
	LeaveType   string  `json:"leave_type"`
	Entitlement float64 `json:"entitlement"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
}

type BalanceResponse struct {
	EmployeeID string        `json:"employee_id"`
	Year       int           `json:"year"`
	Balances   []TypeBalance `json:"balances"`
}
