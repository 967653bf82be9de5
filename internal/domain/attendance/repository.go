package attendance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceRepository persists attendance records. The backing store holds a
// unique index on (employee_id, date) so concurrent writers race safely.
type AttendanceRepository interface {
	// CreateCheckIn atomically inserts the day's record with the check-in
	// stamp, or sets the stamp on an existing record whose check-in is still
	// empty. Returns ErrAlreadyCheckedIn when the stamp is already set.
	CreateCheckIn(ctx context.Context, att Attendance) (Attendance, error)

	// SetCheckOut conditionally stamps check-out on the given record. The
	// write applies only while check_out is empty; otherwise
	// ErrAlreadyCheckedOut is returned.
	SetCheckOut(ctx context.Context, id string, checkOut time.Time, workedHours decimal.Decimal, location *string) (Attendance, error)

	// Upsert writes the record for (employee_id, date) regardless of
	// sequencing. Used for administrative corrections.
	Upsert(ctx context.Context, att Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)
}
