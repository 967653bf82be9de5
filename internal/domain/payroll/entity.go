package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the payment state. Transitions run strictly forward:
// draft -> processed -> paid. Paid records are immutable.
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
)

// Allowances earned for the period. HRA is derived from earned basic; the
// rest are flat amounts from the salary configuration.
type Allowances struct {
	HRA       decimal.Decimal `json:"hra"`
	Transport decimal.Decimal `json:"transport"`
	Medical   decimal.Decimal `json:"medical"`
	Other     decimal.Decimal `json:"other"`
}

func (a Allowances) Sum() decimal.Decimal {
	return a.HRA.Add(a.Transport).Add(a.Medical).Add(a.Other)
}

// Deductions withheld for the period. Tax and PF are derived from earned
// basic; insurance is flat.
type Deductions struct {
	Tax       decimal.Decimal `json:"tax"`
	PF        decimal.Decimal `json:"pf"`
	Insurance decimal.Decimal `json:"insurance"`
	Other     decimal.Decimal `json:"other"`
}

func (d Deductions) Sum() decimal.Decimal {
	return d.Tax.Add(d.PF).Add(d.Insurance).Add(d.Other)
}

// Overtime worked in the period. Amount = Hours * Rate, re-derived with the
// totals on every write.
type Overtime struct {
	Hours  decimal.Decimal `json:"hours"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// PayrollRecord is one employee's pay for one period. The store enforces
// one row per (employee_id, period_month, period_year).
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int

	BasicSalary decimal.Decimal // earned for the period, not contractual
	Allowances  Allowances
	Deductions  Deductions
	Overtime    Overtime
	Bonus       decimal.Decimal

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	WorkingDays int
	PresentDays int
	LeaveDays   int

	Status        PayrollStatus
	ProcessedDate *time.Time
	PaymentDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	EmployeeName *string
}

// DeriveTotals recomputes overtime amount and the three totals from the
// monetary sub-fields. Invoked unconditionally at the end of every payroll
// mutation path; caller-supplied totals are never trusted.
func (p *PayrollRecord) DeriveTotals() {
	p.Overtime.Amount = p.Overtime.Hours.Mul(p.Overtime.Rate).Round(2)
	p.TotalEarnings = p.BasicSalary.Add(p.Allowances.Sum()).Add(p.Overtime.Amount).Add(p.Bonus)
	p.TotalDeductions = p.Deductions.Sum()
	p.NetSalary = p.TotalEarnings.Sub(p.TotalDeductions)
}
