package payroll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/attendance"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/employee"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/notification"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollRepo struct {
	records map[string]*payroll.PayrollRecord
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{records: make(map[string]*payroll.PayrollRecord)}
}

func (f *fakePayrollRepo) Create(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID && existing.PeriodMonth == record.PeriodMonth && existing.PeriodYear == record.PeriodYear {
			return payroll.PayrollRecord{}, payroll.ErrAlreadyExists
		}
	}
	copied := record
	f.records[record.ID] = &copied
	return copied, nil
}

func (f *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return *rec, nil
}

func (f *fakePayrollRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.PeriodMonth == month && rec.PeriodYear == year {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePayrollRepo) Update(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	existing, ok := f.records[record.ID]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if existing.Status == payroll.PayrollStatusPaid {
		return payroll.PayrollRecord{}, payroll.ErrImmutable
	}
	record.Status = existing.Status
	copied := record
	f.records[record.ID] = &copied
	return copied, nil
}

func (f *fakePayrollRepo) Transition(_ context.Context, id string, from, to payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	if rec.Status != from {
		return payroll.PayrollRecord{}, payroll.ErrInvalidTransition
	}
	now := time.Now()
	rec.Status = to
	switch to {
	case payroll.PayrollStatusProcessed:
		rec.ProcessedDate = &now
	case payroll.PayrollStatusPaid:
		rec.PaymentDate = &now
	}
	return *rec, nil
}

func (f *fakePayrollRepo) List(_ context.Context, filter payroll.ListFilter) ([]payroll.PayrollRecord, int64, error) {
	var out []payroll.PayrollRecord
	for _, rec := range f.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) ListByYear(_ context.Context, year int, employeeID *string) ([]payroll.PayrollRecord, error) {
	var out []payroll.PayrollRecord
	for _, rec := range f.records {
		if rec.PeriodYear != year {
			continue
		}
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepo) CreateCheckIn(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeAttendanceRepo) SetCheckOut(_ context.Context, id string, checkOut time.Time, workedHours decimal.Decimal, location *string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.EmployeeID == employeeID && !att.Date.Before(from) && !att.Date.After(to) {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	return f.records, int64(len(f.records)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
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
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListReviewers(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notification.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event notification.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) DispatchAll(ctx context.Context, events []notification.Event) {
	for _, e := range events {
		d.Dispatch(ctx, e)
	}
}

func (d *recordingDispatcher) captured() []notification.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notification.Event(nil), d.events...)
}

// attendanceDays seeds one record per date with the given status.
func attendanceDays(employeeID string, status attendance.Status, dates ...string) []attendance.Attendance {
	var out []attendance.Attendance
	for _, d := range dates {
		date, _ := time.Parse("2006-01-02", d)
		out = append(out, attendance.Attendance{EmployeeID: employeeID, Date: date, Status: status})
	}
	return out
}

// fullMonthPresent marks every weekday of the month present.
func fullMonthPresent(employeeID string, year int, month time.Month) []attendance.Attendance {
	var out []attendance.Attendance
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, attendance.Attendance{EmployeeID: employeeID, Date: d, Status: attendance.StatusPresent})
	}
	return out
}

func salariedEmployee(id string, basic float64) employee.Employee {
	return employee.Employee{
		ID:       id,
		FullName: "Dana Reyes",
		Status:   employee.EmploymentStatusActive,
		Salary: employee.SalaryConfig{
			Basic:              decimal.NewFromFloat(basic),
			TransportAllowance: decimal.NewFromFloat(1600),
			MedicalAllowance:   decimal.NewFromFloat(1250),
			InsuranceDeduction: decimal.NewFromFloat(500),
		},
	}
}

func newTestService(payrollRepo *fakePayrollRepo, attRepo *fakeAttendanceRepo, emp employee.Employee, dispatcher *recordingDispatcher) payroll.PayrollService {
	return NewPayrollService(
		payrollRepo,
		attRepo,
		&fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}},
		dispatcher,
	)
}

var admin = identity.Actor{EmployeeID: "adm-1", Role: identity.RoleAdmin}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("full month pays full basic", func(t *testing.T) {
		dispatcher := &recordingDispatcher{}
		attRepo := &fakeAttendanceRepo{records: fullMonthPresent("emp-1", 2025, time.September)}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 30000), dispatcher)

		resp, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)

		// September 2025 has 22 weekdays, all present.
		assert.Equal(t, 22, resp.WorkingDays)
		assert.Equal(t, 22, resp.PresentDays)
		assert.True(t, resp.BasicSalary.Equal(decimal.NewFromInt(30000)), "basic %s", resp.BasicSalary)
		assert.True(t, resp.Allowances.HRA.Equal(decimal.NewFromInt(12000)), "hra %s", resp.Allowances.HRA)
		assert.True(t, resp.Deductions.Tax.Equal(decimal.NewFromInt(3000)), "tax %s", resp.Deductions.Tax)
		assert.True(t, resp.Deductions.PF.Equal(decimal.NewFromInt(3600)), "pf %s", resp.Deductions.PF)

		// 30000 + 12000 + 1600 + 1250 = 44850 earned; 3000 + 3600 + 500 = 7100 withheld.
		assert.True(t, resp.TotalEarnings.Equal(decimal.NewFromInt(44850)), "earnings %s", resp.TotalEarnings)
		assert.True(t, resp.TotalDeductions.Equal(decimal.NewFromInt(7100)), "deductions %s", resp.TotalDeductions)
		assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(37750)), "net %s", resp.NetSalary)
		assert.Equal(t, "draft", resp.Status)

		events := dispatcher.captured()
		require.Len(t, events, 1)
		assert.Equal(t, notification.CategoryPayrollGenerated, events[0].Category)
		assert.Equal(t, "emp-1", events[0].RecipientID)
	})

	t.Run("partial attendance prorates basic", func(t *testing.T) {
		attRepo := &fakeAttendanceRepo{records: attendanceDays("emp-1", attendance.StatusPresent,
			"2025-09-01", "2025-09-02", "2025-09-03", "2025-09-04", "2025-09-05",
			"2025-09-08", "2025-09-09", "2025-09-10", "2025-09-11", "2025-09-12",
			"2025-09-15",
		)}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 44000), &recordingDispatcher{})

		resp, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)

		// 11 of 22 working days: exactly half the basic.
		assert.Equal(t, 11, resp.PresentDays)
		assert.True(t, resp.BasicSalary.Equal(decimal.NewFromInt(22000)), "basic %s", resp.BasicSalary)
	})

	t.Run("leave days tracked but not paid", func(t *testing.T) {
		records := attendanceDays("emp-1", attendance.StatusPresent, "2025-09-01", "2025-09-02")
		records = append(records, attendanceDays("emp-1", attendance.StatusLeave, "2025-09-03", "2025-09-04")...)
		records = append(records, attendanceDays("emp-1", attendance.StatusAbsent, "2025-09-05")...)
		attRepo := &fakeAttendanceRepo{records: records}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 22000), &recordingDispatcher{})

		resp, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.PresentDays)
		assert.Equal(t, 2, resp.LeaveDays)
		// Basic follows present days only: 22000 * 2/22 = 2000.
		assert.True(t, resp.BasicSalary.Equal(decimal.NewFromInt(2000)), "basic %s", resp.BasicSalary)
	})

	t.Run("duplicate period rejected", func(t *testing.T) {
		attRepo := &fakeAttendanceRepo{records: fullMonthPresent("emp-1", 2025, time.September)}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 30000), &recordingDispatcher{})

		_, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)

		_, err = svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		assert.ErrorIs(t, err, payroll.ErrAlreadyExists)
	})

	t.Run("plain employee forbidden", func(t *testing.T) {
		svc := newTestService(newFakePayrollRepo(), &fakeAttendanceRepo{}, salariedEmployee("emp-1", 30000), &recordingDispatcher{})

		worker := identity.Actor{EmployeeID: "emp-1", Role: identity.RoleEmployee}
		_, err := svc.Generate(ctx, worker, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		assert.ErrorIs(t, err, payroll.ErrForbidden)
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		svc := newTestService(newFakePayrollRepo(), &fakeAttendanceRepo{}, salariedEmployee("emp-1", 30000), &recordingDispatcher{})

		_, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 0, Year: 2025})
		assert.Error(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	generate := func(t *testing.T) (payroll.PayrollService, string) {
		t.Helper()
		attRepo := &fakeAttendanceRepo{records: fullMonthPresent("emp-1", 2025, time.September)}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 30000), &recordingDispatcher{})
		resp, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)
		return svc, resp.ID
	}

	t.Run("overtime and bonus re-derive totals", func(t *testing.T) {
		svc, id := generate(t)

		hours := decimal.NewFromFloat(10)
		rate := decimal.NewFromFloat(250)
		bonus := decimal.NewFromFloat(5000)
		resp, err := svc.Update(ctx, admin, id, payroll.UpdatePayrollRequest{
			OvertimeHours: &hours,
			OvertimeRate:  &rate,
			Bonus:         &bonus,
		})
		require.NoError(t, err)

		assert.True(t, resp.Overtime.Amount.Equal(decimal.NewFromInt(2500)), "overtime %s", resp.Overtime.Amount)
		// 44850 base earnings + 2500 overtime + 5000 bonus.
		assert.True(t, resp.TotalEarnings.Equal(decimal.NewFromInt(52350)), "earnings %s", resp.TotalEarnings)
		assert.True(t, resp.NetSalary.Equal(decimal.NewFromInt(45250)), "net %s", resp.NetSalary)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		svc, id := generate(t)

		bad := decimal.NewFromFloat(-100)
		_, err := svc.Update(ctx, admin, id, payroll.UpdatePayrollRequest{Bonus: &bad})
		assert.Error(t, err)
	})

	t.Run("paid record immutable", func(t *testing.T) {
		svc, id := generate(t)

		_, err := svc.Process(ctx, admin, id)
		require.NoError(t, err)
		_, err = svc.Pay(ctx, admin, id)
		require.NoError(t, err)

		bonus := decimal.NewFromFloat(100)
		_, err = svc.Update(ctx, admin, id, payroll.UpdatePayrollRequest{Bonus: &bonus})
		assert.ErrorIs(t, err, payroll.ErrImmutable)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()

	generate := func(t *testing.T) (payroll.PayrollService, *recordingDispatcher, string) {
		t.Helper()
		dispatcher := &recordingDispatcher{}
		attRepo := &fakeAttendanceRepo{records: fullMonthPresent("emp-1", 2025, time.September)}
		svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 30000), dispatcher)
		resp, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
		require.NoError(t, err)
		return svc, dispatcher, resp.ID
	}

	t.Run("draft to processed to paid", func(t *testing.T) {
		svc, dispatcher, id := generate(t)

		resp, err := svc.Process(ctx, admin, id)
		require.NoError(t, err)
		assert.Equal(t, "processed", resp.Status)
		assert.NotNil(t, resp.ProcessedDate)

		resp, err = svc.Pay(ctx, admin, id)
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		assert.NotNil(t, resp.PaymentDate)

		events := dispatcher.captured()
		last := events[len(events)-1]
		assert.Equal(t, notification.CategoryPayrollPaid, last.Category)
		assert.Equal(t, "emp-1", last.RecipientID)
	})

	t.Run("pay from draft rejected", func(t *testing.T) {
		svc, _, id := generate(t)

		_, err := svc.Pay(ctx, admin, id)
		assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
	})

	t.Run("double process rejected", func(t *testing.T) {
		svc, _, id := generate(t)

		_, err := svc.Process(ctx, admin, id)
		require.NoError(t, err)

		_, err = svc.Process(ctx, admin, id)
		assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{records: fullMonthPresent("emp-1", 2025, time.September)}
	svc := newTestService(newFakePayrollRepo(), attRepo, salariedEmployee("emp-1", 30000), &recordingDispatcher{})

	sept, err := svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 9, Year: 2025})
	require.NoError(t, err)
	_, err = svc.Process(ctx, admin, sept.ID)
	require.NoError(t, err)

	attRepo.records = append(attRepo.records, fullMonthPresent("emp-1", 2025, time.October)...)
	_, err = svc.Generate(ctx, admin, payroll.GeneratePayrollRequest{EmployeeID: "emp-1", Month: 10, Year: 2025})
	require.NoError(t, err)

	empID := "emp-1"
	summary, err := svc.Summary(ctx, 2025, &empID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, 1, summary.StatusCounts["processed"])
	assert.Equal(t, 1, summary.StatusCounts["draft"])
	// Both months pay the full 37750 net.
	assert.True(t, summary.TotalNetSalary.Equal(decimal.NewFromInt(75500)), "net %s", summary.TotalNetSalary)
}
