package employee

import "context"

// EmployeeRepository reads employee records owned by the external personnel
// module. The ledger never writes to it.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	// ListReviewers returns active employees whose role can decide leave
	// requests; used to fan out "leave applied" notifications.
	ListReviewers(ctx context.Context) ([]Employee, error)
}
