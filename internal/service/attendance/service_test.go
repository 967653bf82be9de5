package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/attendance"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/employee"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	byKey map[string]*attendance.Attendance // employeeID|date
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{byKey: make(map[string]*attendance.Attendance)}
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) CreateCheckIn(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	k := key(att.EmployeeID, att.Date)
	if existing, ok := f.byKey[k]; ok {
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = att.CheckIn
		existing.Status = att.Status
		existing.CheckInLocation = att.CheckInLocation
		return *existing, nil
	}
	copied := att
	f.byKey[k] = &copied
	return copied, nil
}

func (f *fakeAttendanceRepo) SetCheckOut(_ context.Context, id string, checkOut time.Time, workedHours decimal.Decimal, location *string) (attendance.Attendance, error) {
	for _, att := range f.byKey {
		if att.ID != id {
			continue
		}
		if att.CheckOut != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		att.CheckOut = &checkOut
		att.WorkedHours = workedHours
		att.CheckOutLocation = location
		return *att, nil
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	k := key(att.EmployeeID, att.Date)
	if existing, ok := f.byKey[k]; ok {
		att.ID = existing.ID
	}
	copied := att
	f.byKey[k] = &copied
	return copied, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	for _, att := range f.byKey {
		if att.ID == id {
			return *att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if att, ok := f.byKey[key(employeeID, date)]; ok {
		copied := *att
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.byKey {
		if att.EmployeeID == employeeID && !att.Date.Before(from) && !att.Date.After(to) {
			out = append(out, *att)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	var out []attendance.Attendance
	for _, att := range f.byKey {
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *att)
	}
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		f.employees[e.ID] = e
	}
	return f
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Active() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListReviewers(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Active() && (e.Role == "reviewer" || e.Role == "admin") {
			out = append(out, e)
		}
	}
	return out, nil
}

func activeEmployee(id string) employee.Employee {
	return employee.Employee{ID: id, FullName: "Dana Reyes", Status: employee.EmploymentStatusActive}
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	actor := identity.Actor{EmployeeID: "emp-1", Role: identity.RoleEmployee}

	t.Run("opens today's record as present", func(t *testing.T) {
		clock := calendar.FixedClock{T: time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)}
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeEmployeeRepo(activeEmployee("emp-1")), clock)

		resp, err := svc.CheckIn(ctx, actor, attendance.CheckInRequest{})
		require.NoError(t, err)
		assert.Equal(t, "present", resp.Status)
		assert.Equal(t, "2025-09-15", resp.Date)
		require.NotNil(t, resp.CheckInTime)
	})

	t.Run("second check-in same day rejected", func(t *testing.T) {
		clock := calendar.FixedClock{T: time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)}
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeEmployeeRepo(activeEmployee("emp-1")), clock)

		_, err := svc.CheckIn(ctx, actor, attendance.CheckInRequest{})
		require.NoError(t, err)

		_, err = svc.CheckIn(ctx, actor, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("inactive employee rejected", func(t *testing.T) {
		clock := calendar.FixedClock{T: time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)}
		inactive := employee.Employee{ID: "emp-1", Status: employee.EmploymentStatusInactive}
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeEmployeeRepo(inactive), clock)

		_, err := svc.CheckIn(ctx, actor, attendance.CheckInRequest{})
		assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
	})
}

func TestCheckOut(t *testing.T) {
	ctx := context.Background()
	actor := identity.Actor{EmployeeID: "emp-1", Role: identity.RoleEmployee}
	repo := newFakeAttendanceRepo()
	empRepo := newFakeEmployeeRepo(activeEmployee("emp-1"))

	morning := calendar.FixedClock{T: time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC)}
	svc := NewAttendanceService(repo, empRepo, morning)
	_, err := svc.CheckIn(ctx, actor, attendance.CheckInRequest{})
	require.NoError(t, err)

	t.Run("without check-in rejected", func(t *testing.T) {
		other := identity.Actor{EmployeeID: "emp-2", Role: identity.RoleEmployee}
		_, err := svc.CheckOut(ctx, other, attendance.CheckOutRequest{})
		assert.ErrorIs(t, err, attendance.ErrNoCheckIn)
	})

	t.Run("computes worked hours rounded to two places", func(t *testing.T) {
		evening := calendar.FixedClock{T: time.Date(2025, 9, 15, 17, 30, 0, 0, time.UTC)}
		svc := NewAttendanceService(repo, empRepo, evening)

		resp, err := svc.CheckOut(ctx, actor, attendance.CheckOutRequest{})
		require.NoError(t, err)
		assert.True(t, resp.WorkedHours.Equal(decimal.NewFromFloat(8.5)), "got %s", resp.WorkedHours)
	})

	t.Run("second check-out rejected", func(t *testing.T) {
		later := calendar.FixedClock{T: time.Date(2025, 9, 15, 18, 0, 0, 0, time.UTC)}
		svc := NewAttendanceService(repo, empRepo, later)

		_, err := svc.CheckOut(ctx, actor, attendance.CheckOutRequest{})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	})
}

func TestMark(t *testing.T) {
	ctx := context.Background()
	clock := calendar.FixedClock{T: time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)}
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, newFakeEmployeeRepo(activeEmployee("emp-1")), clock)

	reviewer := identity.Actor{EmployeeID: "rev-1", Role: identity.RoleReviewer}

	t.Run("plain employee forbidden", func(t *testing.T) {
		worker := identity.Actor{EmployeeID: "emp-1", Role: identity.RoleEmployee}
		_, err := svc.Mark(ctx, worker, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-10", Status: "absent",
		})
		assert.ErrorIs(t, err, attendance.ErrForbidden)
	})

	t.Run("backdated correction upserts", func(t *testing.T) {
		resp, err := svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-10", Status: "half_day",
		})
		require.NoError(t, err)
		assert.Equal(t, "half_day", resp.Status)
		assert.Equal(t, "2025-09-10", resp.Date)

		// Same day again replaces the status, not a second record.
		resp, err = svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-10", Status: "present",
		})
		require.NoError(t, err)
		assert.Equal(t, "present", resp.Status)
		assert.Len(t, repo.byKey, 1)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-10", Status: "vacationing",
		})
		assert.Error(t, err)
	})

	t.Run("stamps derive worked hours", func(t *testing.T) {
		in := "2025-09-11T09:00:00Z"
		out := "2025-09-11T17:15:00Z"
		resp, err := svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-11", Status: "present",
			CheckIn: &in, CheckOut: &out,
		})
		require.NoError(t, err)
		assert.True(t, resp.WorkedHours.Equal(decimal.NewFromFloat(8.25)), "got %s", resp.WorkedHours)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	clock := calendar.FixedClock{T: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)}
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(repo, newFakeEmployeeRepo(activeEmployee("emp-1")), clock)
	reviewer := identity.Actor{EmployeeID: "rev-1", Role: identity.RoleReviewer}

	seed := map[string]string{
		"2025-09-01": "present",
		"2025-09-02": "present",
		"2025-09-03": "late",
		"2025-09-04": "leave",
		"2025-09-05": "absent",
	}
	for date, status := range seed {
		_, err := svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: date, Status: status,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, "emp-1", 9, 2025)
	require.NoError(t, err)

	// Total days is the calendar length of the month, not the record count.
	assert.Equal(t, 30, summary.TotalDays)
	assert.Equal(t, 2, summary.StatusCounts["present"])
	assert.Equal(t, 1, summary.StatusCounts["late"])
	assert.Equal(t, 1, summary.StatusCounts["leave"])
	assert.Equal(t, 1, summary.StatusCounts["absent"])
	assert.Equal(t, 0, summary.StatusCounts["holiday"])

	_, err = svc.Summary(ctx, "emp-1", 13, 2025)
	assert.ErrorIs(t, err, attendance.ErrInvalidPeriod)
}

func TestMarkAbsentees(t *testing.T) {
	ctx := context.Background()

	t.Run("weekend previous day skipped", func(t *testing.T) {
		// Monday; previous day is Sunday.
		clock := calendar.FixedClock{T: time.Date(2025, 9, 15, 1, 0, 0, 0, time.UTC)}
		svc := NewAttendanceService(newFakeAttendanceRepo(), newFakeEmployeeRepo(activeEmployee("emp-1")), clock)

		marked, err := svc.MarkAbsentees(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, marked)
	})

	t.Run("fills gaps only", func(t *testing.T) {
		// Wednesday; previous day Tuesday 2025-09-16.
		clock := calendar.FixedClock{T: time.Date(2025, 9, 17, 1, 0, 0, 0, time.UTC)}
		repo := newFakeAttendanceRepo()
		empRepo := newFakeEmployeeRepo(activeEmployee("emp-1"), activeEmployee("emp-2"))
		svc := NewAttendanceService(repo, empRepo, clock)

		reviewer := identity.Actor{EmployeeID: "rev-1", Role: identity.RoleReviewer}
		_, err := svc.Mark(ctx, reviewer, attendance.MarkAttendanceRequest{
			EmployeeID: "emp-1", Date: "2025-09-16", Status: "present",
		})
		require.NoError(t, err)

		marked, err := svc.MarkAbsentees(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, marked)

		rec, err := repo.GetByEmployeeAndDate(ctx, "emp-2", time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, attendance.StatusAbsent, rec.Status)
	})
}
