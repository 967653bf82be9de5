package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/employee"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/leave"
	"github.com/clockwork-hr/ledger-backend-go/internal/domain/notification"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/calendar"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	dispatcher notification.Dispatcher
	clock      calendar.Clock
}

func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	dispatcher notification.Dispatcher,
	clock calendar.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		EmployeeRepository:     employeeRepo,
		dispatcher:             dispatcher,
		clock:                  clock,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func mapLeaveToResponse(lr leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:              lr.ID,
		EmployeeID:      lr.EmployeeID,
		EmployeeName:    lr.EmployeeName,
		LeaveType:       string(lr.LeaveType),
		StartDate:       lr.StartDate.Format("2006-01-02"),
		EndDate:         lr.EndDate.Format("2006-01-02"),
		TotalDays:       lr.TotalDays,
		Reason:          lr.Reason,
		Status:          string(lr.Status),
		AppliedDate:     lr.AppliedDate.Format(time.RFC3339),
		ApprovedBy:      lr.ApprovedBy,
		ApprovedDate:    timePtrToString(lr.ApprovedDate),
		RejectionReason: lr.RejectionReason,
	}
}

// Apply implements leave.LeaveService.
func (l *LeaveServiceImpl) Apply(ctx context.Context, actor identity.Actor, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.Active() {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	now := l.clock.Now()
	// Parsed dates are UTC midnights; compare against today in the same frame.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) || end.Before(start) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	totalDays, err := calendar.InclusiveDaySpan(start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	// Cheap pre-check; the insert below still races against the store's
	// exclusion constraint, which is the authority.
	overlap, err := l.LeaveRequestRepository.HasOverlap(ctx, actor.EmployeeID, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlap: %w", err)
	}
	if overlap {
		return leave.LeaveRequestResponse{}, leave.ErrOverlappingLeave
	}

	request := leave.LeaveRequest{
		ID:          uuid.New().String(),
		EmployeeID:  actor.EmployeeID,
		LeaveType:   leave.LeaveType(req.LeaveType),
		StartDate:   start,
		EndDate:     end,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      leave.LeaveRequestStatusPending,
		AppliedDate: now,
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyReviewers(ctx, emp, created)

	created.EmployeeName = &emp.FullName
	return mapLeaveToResponse(created), nil
}

func (l *LeaveServiceImpl) notifyReviewers(ctx context.Context, emp employee.Employee, lr leave.LeaveRequest) {
	reviewers, err := l.EmployeeRepository.ListReviewers(ctx)
	if err != nil {
		// Notification is best effort; the request itself is committed.
		return
	}

	events := make([]notification.Event, 0, len(reviewers))
	for _, rev := range reviewers {
		if rev.ID == emp.ID {
			continue
		}
		events = append(events, notification.Event{
			RecipientID: rev.ID,
			SenderID:    &lr.EmployeeID,
			Title:       "New leave request",
			Message:     fmt.Sprintf("%s applied for %s leave (%s to %s, %d days)", emp.FullName, lr.LeaveType, lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"), lr.TotalDays),
			Category:    notification.CategoryLeaveApplied,
			Priority:    notification.PriorityNormal,
			Payload:     map[string]interface{}{"leave_request_id": lr.ID},
		})
	}
	l.dispatcher.DispatchAll(ctx, events)
}

// Review implements leave.LeaveService.
func (l *LeaveServiceImpl) Review(ctx context.Context, actor identity.Actor, leaveID string, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if !actor.CanReview() {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	current, err := l.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if current.EmployeeID == actor.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	status := leave.LeaveRequestStatus(req.Decision)
	var reason *string
	if status == leave.LeaveRequestStatusRejected {
		reason = req.RejectionReason
	}

	// Conditional one-shot write; a concurrent reviewer loses with
	// ErrAlreadyProcessed.
	decided, err := l.LeaveRequestRepository.Decide(ctx, leaveID, status, actor.EmployeeID, l.clock.Now(), reason)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	l.notifyDecision(ctx, actor, decided)

	return mapLeaveToResponse(decided), nil
}

func (l *LeaveServiceImpl) notifyDecision(ctx context.Context, actor identity.Actor, lr leave.LeaveRequest) {
	category := notification.CategoryLeaveApproved
	title := "Leave request approved"
	message := fmt.Sprintf("Your %s leave from %s to %s was approved", lr.LeaveType, lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"))
	if lr.Status == leave.LeaveRequestStatusRejected {
		category = notification.CategoryLeaveRejected
		title = "Leave request rejected"
		message = fmt.Sprintf("Your %s leave from %s to %s was rejected", lr.LeaveType, lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"))
		if lr.RejectionReason != nil {
			message = fmt.Sprintf("%s: %s", message, *lr.RejectionReason)
		}
	}

	l.dispatcher.Dispatch(ctx, notification.Event{
		RecipientID: lr.EmployeeID,
		SenderID:    &actor.EmployeeID,
		Title:       title,
		Message:     message,
		Category:    category,
		Priority:    notification.PriorityHigh,
		Payload:     map[string]interface{}{"leave_request_id": lr.ID},
	})
}

// Cancel implements leave.LeaveService.
func (l *LeaveServiceImpl) Cancel(ctx context.Context, actor identity.Actor, leaveID string) (leave.LeaveRequestResponse, error) {
	current, err := l.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if current.EmployeeID != actor.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrForbidden
	}

	cancelled, err := l.LeaveRequestRepository.Cancel(ctx, leaveID, l.clock.Now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapLeaveToResponse(cancelled), nil
}

// Balance implements leave.LeaveService.
func (l *LeaveServiceImpl) Balance(ctx context.Context, employeeID string, year int) (leave.BalanceResponse, error) {
	if _, err := l.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	used, err := l.LeaveRequestRepository.ApprovedDaysByType(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to sum approved days: %w", err)
	}

	balances := make([]leave.TypeBalance, 0, len(leave.AllLeaveTypes()))
	for _, lt := range leave.AllLeaveTypes() {
		entitlement := leave.Entitlements[lt]
		usedDays := used[lt]
		remaining := entitlement - usedDays
		if remaining < 0 {
			remaining = 0
		}
		balances = append(balances, leave.TypeBalance{
			LeaveType:   string(lt),
			Entitlement: entitlement,
			Used:        usedDays,
			Remaining:   remaining,
		})
	}

	return leave.BalanceResponse{
		EmployeeID: employeeID,
		Year:       year,
		Balances:   balances,
	}, nil
}

// Get implements leave.LeaveService.
func (l *LeaveServiceImpl) Get(ctx context.Context, leaveID string) (leave.LeaveRequestResponse, error) {
	lr, err := l.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return mapLeaveToResponse(lr), nil
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) (leave.ListLeaveRequestsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	requests, totalCount, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, mapLeaveToResponse(lr))
	}

	totalPages := int((totalCount + int64(filter.Limit) - 1) / int64(filter.Limit))

	return leave.ListLeaveRequestsResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Requests:   responses,
	}, nil
}
