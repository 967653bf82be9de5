package payroll

import (
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ============= Request DTOs =============

// GeneratePayrollRequest derives one period's record for one employee.
type GeneratePayrollRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePayrollRequest merges allowance/deduction/overtime/bonus sub-fields;
// totals are always re-derived, never accepted from the caller.
type UpdatePayrollRequest struct {
	AllowanceHRA       *decimal.Decimal `json:"allowance_hra,omitempty"`
	AllowanceTransport *decimal.Decimal `json:"allowance_transport,omitempty"`
	AllowanceMedical   *decimal.Decimal `json:"allowance_medical,omitempty"`
	AllowanceOther     *decimal.Decimal `json:"allowance_other,omitempty"`

	DeductionTax       *decimal.Decimal `json:"deduction_tax,omitempty"`
	DeductionPF        *decimal.Decimal `json:"deduction_pf,omitempty"`
	DeductionInsurance *decimal.Decimal `json:"deduction_insurance,omitempty"`
	DeductionOther     *decimal.Decimal `json:"deduction_other,omitempty"`

	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	OvertimeRate  *decimal.Decimal `json:"overtime_rate,omitempty"`

	Bonus *decimal.Decimal `json:"bonus,omitempty"`
}

func (r UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	nonNegative := map[string]*decimal.Decimal{
		"allowance_hra":       r.AllowanceHRA,
		"allowance_transport": r.AllowanceTransport,
		"allowance_medical":   r.AllowanceMedical,
		"allowance_other":     r.AllowanceOther,
		"deduction_tax":       r.DeductionTax,
		"deduction_pf":        r.DeductionPF,
		"deduction_insurance": r.DeductionInsurance,
		"deduction_other":     r.DeductionOther,
		"overtime_hours":      r.OvertimeHours,
		"overtime_rate":       r.OvertimeRate,
		"bonus":               r.Bonus,
	}
	for field, v := range nonNegative {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListFilter narrows list queries; zero values mean no filtering.
type ListFilter struct {
	EmployeeID *string
	Month      *int
	Year       *int
	Status     *string
	Page       int
	Limit      int
}

// ============= Response DTOs =============

type PayrollResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	PeriodMonth  int     `json:"period_month"`
	PeriodYear   int     `json:"period_year"`

	BasicSalary decimal.Decimal `json:"basic_salary"`
	Allowances  Allowances      `json:"allowances"`
	Deductions  Deductions      `json:"deductions"`
	Overtime    Overtime        `json:"overtime"`
	Bonus       decimal.Decimal `json:"bonus"`

	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	LeaveDays   int `json:"leave_days"`

	Status        string     `json:"status"`
	ProcessedDate *time.Time `json:"processed_date,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
}

type ListPayrollResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Records    []PayrollResponse `json:"records"`
}

// YearlySummaryResponse aggregates a year of payroll records, optionally
// scoped to one employee.
type YearlySummaryResponse struct {
	EmployeeID      *string         `json:"employee_id,omitempty"`
	Year            int             `json:"year"`
	RecordCount     int             `json:"record_count"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetSalary  decimal.Decimal `json:"total_net_salary"`
	StatusCounts    map[string]int  `json:"status_counts"`
}
