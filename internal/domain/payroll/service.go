package payroll

import (
	"context"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
)

// PayrollService defines business logic for payroll derivation.
type PayrollService interface {
	// Generate derives exactly one draft record for (employee, month, year)
	// from attendance and salary configuration.
	Generate(ctx context.Context, actor identity.Actor, req GeneratePayrollRequest) (PayrollResponse, error)

	// Update merges monetary sub-fields into a non-paid record and
	// re-derives totals.
	Update(ctx context.Context, actor identity.Actor, payrollID string, req UpdatePayrollRequest) (PayrollResponse, error)

	// Process moves draft -> processed.
	Process(ctx context.Context, actor identity.Actor, payrollID string) (PayrollResponse, error)

	// Pay moves processed -> paid; the record is immutable afterwards.
	Pay(ctx context.Context, actor identity.Actor, payrollID string) (PayrollResponse, error)

	Get(ctx context.Context, payrollID string) (PayrollResponse, error)
	List(ctx context.Context, filter ListFilter) (ListPayrollResponse, error)

	// Summary aggregates one year's records, optionally for one employee.
	Summary(ctx context.Context, year int, employeeID *string) (YearlySummaryResponse, error)
}
