package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/attendance"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/employee"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/notification"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/payroll"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/calendar"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Derivation rates applied to the period's earned basic.
var (
	hraRate = decimal.NewFromFloat(0.40)
	taxRate = decimal.NewFromFloat(0.10)
	pfRate  = decimal.NewFromFloat(0.12)
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	dispatcher notification.Dispatcher
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	dispatcher notification.Dispatcher,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PayrollRepository:    payrollRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		dispatcher:           dispatcher,
	}
}

func mapPayrollToResponse(rec payroll.PayrollRecord) payroll.PayrollResponse {
	return payroll.PayrollResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		EmployeeName:    rec.EmployeeName,
		PeriodMonth:     rec.PeriodMonth,
		PeriodYear:      rec.PeriodYear,
		BasicSalary:     rec.BasicSalary,
		Allowances:      rec.Allowances,
		Deductions:      rec.Deductions,
		Overtime:        rec.Overtime,
		Bonus:           rec.Bonus,
		TotalEarnings:   rec.TotalEarnings,
		TotalDeductions: rec.TotalDeductions,
		NetSalary:       rec.NetSalary,
		WorkingDays:     rec.WorkingDays,
		PresentDays:     rec.PresentDays,
		LeaveDays:       rec.LeaveDays,
		Status:          string(rec.Status),
		ProcessedDate:   rec.ProcessedDate,
		PaymentDate:     rec.PaymentDate,
	}
}

// Generate implements payroll.PayrollService.
func (p *PayrollServiceImpl) Generate(ctx context.Context, actor identity.Actor, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if !actor.CanReview() {
		return payroll.PayrollResponse{}, payroll.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	emp, err := p.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	// Early exit for the common retry; the unique period index still backs
	// this up under concurrency.
	existing, err := p.PayrollRepository.GetByEmployeePeriod(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to check existing payroll: %w", err)
	}
	if existing != nil {
		return payroll.PayrollResponse{}, payroll.ErrAlreadyExists
	}

	first, last := calendar.MonthBounds(req.Year, time.Month(req.Month), time.UTC)

	workingDays, err := calendar.WorkingDaysBetween(first, last)
	if err != nil {
		return payroll.PayrollResponse{}, payroll.ErrInvalidPeriod
	}
	if workingDays == 0 {
		return payroll.PayrollResponse{}, payroll.ErrNoWorkingDays
	}

	records, err := p.AttendanceRepository.ListByEmployeeAndRange(ctx, req.EmployeeID, first, last)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	presentDays, leaveDays := countPeriodDays(records)

	rec := derive(emp, req.Month, req.Year, workingDays, presentDays, leaveDays)
	rec.ID = uuid.New().String()

	created, err := p.PayrollRepository.Create(ctx, rec)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p.dispatcher.Dispatch(ctx, notification.Event{
		RecipientID: emp.ID,
		SenderID:    &actor.EmployeeID,
		Title:       "Payroll generated",
		Message:     fmt.Sprintf("Your payroll for %d-%02d has been generated", req.Year, req.Month),
		Category:    notification.CategoryPayrollGenerated,
		Priority:    notification.PriorityNormal,
		Payload:     map[string]interface{}{"payroll_id": created.ID},
	})

	created.EmployeeName = &emp.FullName
	return mapPayrollToResponse(created), nil
}

// countPeriodDays tallies the month's attendance by payable category.
// Only status Present counts toward proration; Leave days are tracked on the
// record but do not earn basic.
func countPeriodDays(records []attendance.Attendance) (present, onLeave int) {
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			present++
		case attendance.StatusLeave:
			onLeave++
		}
	}
	return present, onLeave
}

// derive builds the draft record from the employee's salary configuration
// and the period's day counts. Basic is prorated over weekday working days;
// HRA, tax and PF follow the earned basic.
func derive(emp employee.Employee, month, year, workingDays, presentDays, leaveDays int) payroll.PayrollRecord {
	earnedBasic := emp.Salary.Basic.
		Mul(decimal.NewFromInt(int64(presentDays))).
		Div(decimal.NewFromInt(int64(workingDays))).
		Round(2)

	rec := payroll.PayrollRecord{
		EmployeeID:  emp.ID,
		PeriodMonth: month,
		PeriodYear:  year,
		BasicSalary: earnedBasic,
		Allowances: payroll.Allowances{
			HRA:       earnedBasic.Mul(hraRate).Round(2),
			Transport: emp.Salary.TransportAllowance,
			Medical:   emp.Salary.MedicalAllowance,
		},
		Deductions: payroll.Deductions{
			Tax:       earnedBasic.Mul(taxRate).Round(2),
			PF:        earnedBasic.Mul(pfRate).Round(2),
			Insurance: emp.Salary.InsuranceDeduction,
		},
		WorkingDays: workingDays,
		PresentDays: presentDays,
		LeaveDays:   leaveDays,
		Status:      payroll.PayrollStatusDraft,
	}
	rec.DeriveTotals()
	return rec
}

// Update implements payroll.PayrollService.
func (p *PayrollServiceImpl) Update(ctx context.Context, actor identity.Actor, payrollID string, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if !actor.CanReview() {
		return payroll.PayrollResponse{}, payroll.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	rec, err := p.PayrollRepository.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	if rec.Status == payroll.PayrollStatusPaid {
		return payroll.PayrollResponse{}, payroll.ErrImmutable
	}

	applyPatch(&rec, req)
	rec.DeriveTotals()

	updated, err := p.PayrollRepository.Update(ctx, rec)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapPayrollToResponse(updated), nil
}

func applyPatch(rec *payroll.PayrollRecord, req payroll.UpdatePayrollRequest) {
	if req.AllowanceHRA != nil {
		rec.Allowances.HRA = *req.AllowanceHRA
	}
	if req.AllowanceTransport != nil {
		rec.Allowances.Transport = *req.AllowanceTransport
	}
	if req.AllowanceMedical != nil {
		rec.Allowances.Medical = *req.AllowanceMedical
	}
	if req.AllowanceOther != nil {
		rec.Allowances.Other = *req.AllowanceOther
	}
	if req.DeductionTax != nil {
		rec.Deductions.Tax = *req.DeductionTax
	}
	if req.DeductionPF != nil {
		rec.Deductions.PF = *req.DeductionPF
	}
	if req.DeductionInsurance != nil {
		rec.Deductions.Insurance = *req.DeductionInsurance
	}
	if req.DeductionOther != nil {
		rec.Deductions.Other = *req.DeductionOther
	}
	if req.OvertimeHours != nil {
		rec.Overtime.Hours = *req.OvertimeHours
	}
	if req.OvertimeRate != nil {
		rec.Overtime.Rate = *req.OvertimeRate
	}
	if req.Bonus != nil {
		rec.Bonus = *req.Bonus
	}
}

// Process implements payroll.PayrollService.
func (p *PayrollServiceImpl) Process(ctx context.Context, actor identity.Actor, payrollID string) (payroll.PayrollResponse, error) {
	if !actor.CanReview() {
		return payroll.PayrollResponse{}, payroll.ErrForbidden
	}

	rec, err := p.PayrollRepository.Transition(ctx, payrollID, payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapPayrollToResponse(rec), nil
}

// Pay implements payroll.PayrollService.
func (p *PayrollServiceImpl) Pay(ctx context.Context, actor identity.Actor, payrollID string) (payroll.PayrollResponse, error) {
	if !actor.CanReview() {
		return payroll.PayrollResponse{}, payroll.ErrForbidden
	}

	rec, err := p.PayrollRepository.Transition(ctx, payrollID, payroll.PayrollStatusProcessed, payroll.PayrollStatusPaid)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	p.dispatcher.Dispatch(ctx, notification.Event{
		RecipientID: rec.EmployeeID,
		SenderID:    &actor.EmployeeID,
		Title:       "Salary paid",
		Message:     fmt.Sprintf("Your salary for %d-%02d has been paid", rec.PeriodYear, rec.PeriodMonth),
		Category:    notification.CategoryPayrollPaid,
		Priority:    notification.PriorityHigh,
		Payload:     map[string]interface{}{"payroll_id": rec.ID},
	})

	return mapPayrollToResponse(rec), nil
}

// Get implements payroll.PayrollService.
func (p *PayrollServiceImpl) Get(ctx context.Context, payrollID string) (payroll.PayrollResponse, error) {
	rec, err := p.PayrollRepository.GetByID(ctx, payrollID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}
	return mapPayrollToResponse(rec), nil
}

// List implements payroll.PayrollService.
func (p *PayrollServiceImpl) List(ctx context.Context, filter payroll.ListFilter) (payroll.ListPayrollResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := p.PayrollRepository.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapPayrollToResponse(rec))
	}

	totalPages := int((totalCount + int64(filter.Limit) - 1) / int64(filter.Limit))

	return payroll.ListPayrollResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

// Summary implements payroll.PayrollService.
func (p *PayrollServiceImpl) Summary(ctx context.Context, year int, employeeID *string) (payroll.YearlySummaryResponse, error) {
	records, err := p.PayrollRepository.ListByYear(ctx, year, employeeID)
	if err != nil {
		return payroll.YearlySummaryResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	summary := payroll.YearlySummaryResponse{
		EmployeeID:      employeeID,
		Year:            year,
		RecordCount:     len(records),
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNetSalary:  decimal.Zero,
		StatusCounts:    map[string]int{},
	}
	for _, rec := range records {
		summary.TotalEarnings = summary.TotalEarnings.Add(rec.TotalEarnings)
		summary.TotalDeductions = summary.TotalDeductions.Add(rec.TotalDeductions)
		summary.TotalNetSalary = summary.TotalNetSalary.Add(rec.NetSalary)
		summary.StatusCounts[string(rec.Status)]++
	}

	return summary, nil
}
