package attendance

import (
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ============= Request DTOs =============

// CheckInRequest opens today's attendance record for the acting employee.
type CheckInRequest struct {
	Location *string `json:"location,omitempty"`
}

// CheckOutRequest closes today's open attendance record.
type CheckOutRequest struct {
	Location *string `json:"location,omitempty"`
}

// MarkAttendanceRequest upserts a day's record with an explicit status,
// bypassing check-in/out sequencing. Reviewer/admin only.
type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Status     string  `json:"status"`
	CheckIn    *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut   *string `json:"check_out,omitempty"` // RFC3339
	Notes      *string `json:"notes,omitempty"`
}

func (r MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !ValidStatus(Status(r.Status)) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be a valid attendance status"})
	}

	var in, out time.Time
	if r.CheckIn != nil {
		t, ok := validator.IsValidDateTime(*r.CheckIn)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "check_in", Message: "must be a valid ISO8601 timestamp"})
		}
		in = t
	}
	if r.CheckOut != nil {
		t, ok := validator.IsValidDateTime(*r.CheckOut)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "check_out", Message: "must be a valid ISO8601 timestamp"})
		}
		out = t
	}
	if !in.IsZero() && !out.IsZero() && out.Before(in) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "must not precede check_in"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows list queries; zero values mean no filtering.
type ListFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

// ============= Response DTOs =============

type AttendanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	Date             string          `json:"date"`
	CheckInTime      *string         `json:"check_in_time,omitempty"`
	CheckOutTime     *string         `json:"check_out_time,omitempty"`
	WorkedHours      decimal.Decimal `json:"worked_hours"`
	Status           string          `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	CheckInLocation  *string         `json:"check_in_location,omitempty"`
	CheckOutLocation *string         `json:"check_out_location,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// MonthlySummaryResponse aggregates one employee's month. TotalDays counts
// every calendar day in the month; payroll's working-day proration uses a
// separate weekday-only count.
type MonthlySummaryResponse struct {
	EmployeeID       string          `json:"employee_id"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	TotalDays        int             `json:"total_days"`
	StatusCounts     map[string]int  `json:"status_counts"`
	TotalWorkedHours decimal.Decimal `json:"total_worked_hours"`
}
