package leave

import (
	"context"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
)

// LeaveService defines business logic for the leave ledger.
type LeaveService interface {
	// Apply creates a pending request for the acting employee and notifies
	// every reviewer.
	Apply(ctx context.Context, actor identity.Actor, req ApplyLeaveRequest) (LeaveRequestResponse, error)

	// Review decides a pending request exactly once; the requesting employee
	// is notified of the outcome.
	Review(ctx context.Context, actor identity.Actor, leaveID string, req ReviewLeaveRequest) (LeaveRequestResponse, error)

	// Cancel lets the owning employee withdraw a pending request.
	Cancel(ctx context.Context, actor identity.Actor, leaveID string) (LeaveRequestResponse, error)

	// Balance reports per-type entitlement, used and remaining days for the
	// year.
	Balance(ctx context.Context, employeeID string, year int) (BalanceResponse, error)

	Get(ctx context.Context, leaveID string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter ListFilter) (ListLeaveRequestsResponse, error)
}
