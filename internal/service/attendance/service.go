package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/attendance"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/employee"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/calendar"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	clock calendar.Clock
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clock calendar.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		clock:                clock,
	}
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:               att.ID,
		EmployeeID:       att.EmployeeID,
		EmployeeName:     att.EmployeeName,
		Date:             att.Date.Format("2006-01-02"),
		CheckInTime:      timePtrToString(att.CheckIn),
		CheckOutTime:     timePtrToString(att.CheckOut),
		WorkedHours:      att.WorkedHours,
		Status:           string(att.Status),
		Notes:            att.Notes,
		CheckInLocation:  att.CheckInLocation,
		CheckOutLocation: att.CheckOutLocation,
		CreatedAt:        att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        att.UpdatedAt.Format(time.RFC3339),
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor identity.Actor, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.Active() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	now := a.clock.Now()
	today := calendar.DayStart(now)

	checkIn := now
	att := attendance.Attendance{
		ID:              uuid.New().String(),
		EmployeeID:      actor.EmployeeID,
		Date:            today,
		CheckIn:         &checkIn,
		Status:          attendance.StatusPresent,
		CheckInLocation: req.Location,
	}

	// The unique index on (employee_id, date) plus the conditional conflict
	// update decide the winner under concurrency; no read-then-write here.
	created, err := a.AttendanceRepository.CreateCheckIn(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created.EmployeeName = &emp.FullName
	return mapAttendanceToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor identity.Actor, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	now := a.clock.Now()
	today := calendar.DayStart(now)

	current, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, actor.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if current == nil || current.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoCheckIn
	}

	hours := now.Sub(*current.CheckIn).Hours()
	if hours < 0 {
		hours = 0
	}
	workedHours := decimal.NewFromFloat(hours).Round(2)

	updated, err := a.AttendanceRepository.SetCheckOut(ctx, current.ID, now, workedHours, req.Location)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(updated), nil
}

// Mark implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Mark(ctx context.Context, actor identity.Actor, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if !actor.CanReview() {
		return attendance.AttendanceResponse{}, attendance.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	att := attendance.Attendance{
		ID:         uuid.New().String(),
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Notes:      req.Notes,
	}
	if req.CheckIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckIn)
		att.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.CheckOut)
		att.CheckOut = &t
	}
	att.ComputeWorkedHours()

	saved, err := a.AttendanceRepository.Upsert(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	saved.EmployeeName = &emp.FullName
	return mapAttendanceToResponse(saved), nil
}

// Summary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Summary(ctx context.Context, employeeID string, month, year int) (attendance.MonthlySummaryResponse, error) {
	if month < 1 || month > 12 {
		return attendance.MonthlySummaryResponse{}, attendance.ErrInvalidPeriod
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	first, last := calendar.MonthBounds(year, time.Month(month), time.UTC)

	records, err := a.AttendanceRepository.ListByEmployeeAndRange(ctx, employeeID, first, last)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	counts := make(map[string]int, len(attendance.AllStatuses()))
	for _, s := range attendance.AllStatuses() {
		counts[string(s)] = 0
	}
	total := decimal.Zero
	for _, rec := range records {
		counts[string(rec.Status)]++
		total = total.Add(rec.WorkedHours)
	}

	return attendance.MonthlySummaryResponse{
		EmployeeID:       employeeID,
		Month:            month,
		Year:             year,
		TotalDays:        calendar.DaysInMonth(year, time.Month(month)),
		StatusCounts:     counts,
		TotalWorkedHours: total,
	}, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, totalCount, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}

	totalPages := int((totalCount + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListAttendanceResponse{
		TotalCount:  totalCount,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// MarkAbsentees implements attendance.AttendanceService. It backfills absent
// records for the previous working day; weekends are skipped entirely.
func (a *AttendanceServiceImpl) MarkAbsentees(ctx context.Context) (int, error) {
	day := calendar.DayStart(a.clock.Now()).AddDate(0, 0, -1)
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return 0, nil
	}

	employees, err := a.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, day)
		if err != nil {
			return marked, fmt.Errorf("failed to get attendance for %s: %w", emp.ID, err)
		}
		if existing != nil {
			continue
		}

		_, err = a.AttendanceRepository.Upsert(ctx, attendance.Attendance{
			ID:         uuid.New().String(),
			EmployeeID: emp.ID,
			Date:       day,
			Status:     attendance.StatusAbsent,
		})
		if err != nil {
			return marked, fmt.Errorf("failed to mark absentee %s: %w", emp.ID, err)
		}
		marked++
	}

	return marked, nil
}
