package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentStatus of an employee record.
type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "active"
	EmploymentStatusInactive EmploymentStatus = "inactive"
)

// SalaryConfig is the contractual pay configuration used by payroll
// derivation. Basic is prorated by attendance; the allowance and deduction
// amounts are flat per period.
type SalaryConfig struct {
	Basic              decimal.Decimal
	TransportAllowance decimal.Decimal
	MedicalAllowance   decimal.Decimal
	InsuranceDeduction decimal.Decimal
}

// Employee is owned by the personnel CRUD layer and is read-only here.
type Employee struct {
	ID         string
	FullName   string
	Email      string
	Department string
	Role       string
	Salary     SalaryConfig
	Status     EmploymentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Active reports whether the employee can appear on new ledger records.
func (e Employee) Active() bool {
	return e.Status == EmploymentStatusActive
}
