package attendance

import (
	"context"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
)

// AttendanceService defines business logic for the attendance ledger.
type AttendanceService interface {
	// CheckIn opens today's record for the acting employee.
	CheckIn(ctx context.Context, actor identity.Actor, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record and computes worked hours.
	CheckOut(ctx context.Context, actor identity.Actor, req CheckOutRequest) (AttendanceResponse, error)

	// Mark upserts a day's record with an explicit status (reviewer/admin),
	// used for backdated corrections.
	Mark(ctx context.Context, actor identity.Actor, req MarkAttendanceRequest) (AttendanceResponse, error)

	// Summary aggregates one employee's month: counts per status plus total
	// worked hours.
	Summary(ctx context.Context, employeeID string, month, year int) (MonthlySummaryResponse, error)

	// List retrieves attendance records with filters and pagination.
	List(ctx context.Context, filter ListFilter) (ListAttendanceResponse, error)

	// MarkAbsentees inserts absent records for active employees with no
	// record on the given day. Run by the scheduler after day close.
	MarkAbsentees(ctx context.Context) (int, error)
}
