package payroll

import "context"

// PayrollRepository persists payroll records. The store holds a unique index
// on (employee_id, period_month, period_year); a racing generate surfaces as
// ErrAlreadyExists.
type PayrollRepository interface {
	// Create inserts a draft record. Returns ErrAlreadyExists when the
	// period key is taken.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*PayrollRecord, error)

	// Update rewrites the record's monetary fields and totals. Refused at
	// the store when status is paid.
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	// Transition moves status from expected to next in one conditional
	// write, stamping the given timestamp column. Zero rows means the record
	// was not in the expected status.
	Transition(ctx context.Context, id string, from, to PayrollStatus) (PayrollRecord, error)

	List(ctx context.Context, filter ListFilter) ([]PayrollRecord, int64, error)
	ListByYear(ctx context.Context, year int, employeeID *string) ([]PayrollRecord, error)
}
