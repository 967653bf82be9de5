package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/leave"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

const leaveRequestColumns = `
	l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.total_days,
	l.reason, l.status, l.applied_date, l.approved_by, l.approved_date,
	l.rejection_reason, l.created_at, l.updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.TotalDays,
		&lr.Reason, &lr.Status, &lr.AppliedDate, &lr.ApprovedBy, &lr.ApprovedDate,
		&lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
	)
	return lr, err
}

// Create implements leave.LeaveRequestRepository.
//
// The table carries an exclusion constraint over
// (employee_id, daterange(start_date, end_date, '[]')) restricted to
// pending/approved rows, so two racing inserts with touching spans resolve
// to one winner.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, total_days,
			reason, status, applied_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.LeaveType,
		request.StartDate,
		request.EndDate,
		request.TotalDays,
		request.Reason,
		request.Status,
		request.AppliedDate,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		if isExclusionViolation(err) {
			return leave.LeaveRequest{}, leave.ErrOverlappingLeave
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, e.full_name AS employee_name
		FROM leave_requests l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE l.id = $1
	`

	var lr leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.TotalDays,
		&lr.Reason, &lr.Status, &lr.AppliedDate, &lr.ApprovedBy, &lr.ApprovedDate,
		&lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return lr, nil
}

// HasOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('pending', 'approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var hasOverlap bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&hasOverlap); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}

	return hasOverlap, nil
}

// Decide implements leave.LeaveRequestRepository.
//
// Single conditional write: only a pending row transitions, so concurrent
// reviews resolve to one winner and the rest observe ErrAlreadyProcessed.
func (r *leaveRequestRepository) Decide(ctx context.Context, id string, status leave.LeaveRequestStatus, reviewerID string, decidedAt time.Time, rejectionReason *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status           = $2,
			approved_by      = $3,
			approved_date    = $4,
			rejection_reason = $5,
			updated_at       = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, employee_id, leave_type, start_date, end_date, total_days,
			reason, status, applied_date, approved_by, approved_date,
			rejection_reason, created_at, updated_at
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, reviewerID, decidedAt, rejectionReason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to decide leave request: %w", err)
	}

	return lr, nil
}

// Cancel implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Cancel(ctx context.Context, id string, cancelledAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status     = 'cancelled',
			updated_at = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING id, employee_id, leave_type, start_date, end_date, total_days,
			reason, status, applied_date, approved_by, approved_date,
			rejection_reason, created_at, updated_at
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, cancelledAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to cancel leave request: %w", err)
	}

	return lr, nil
}

// ApprovedDaysByType implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) ApprovedDaysByType(ctx context.Context, employeeID string, year int) (map[leave.LeaveType]float64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type, COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND EXTRACT(YEAR FROM start_date) = $2
		GROUP BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	defer rows.Close()

	used := make(map[leave.LeaveType]float64)
	for rows.Next() {
		var leaveType leave.LeaveType
		var days float64
		if err := rows.Scan(&leaveType, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave day sum: %w", err)
		}
		used[leaveType] = days
	}

	return used, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND l.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		baseWhere += fmt.Sprintf(" AND l.leave_type = $%d", argIdx)
		args = append(args, *filter.LeaveType)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Year != nil {
		baseWhere += fmt.Sprintf(" AND EXTRACT(YEAR FROM l.start_date) = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM leave_requests l WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+leaveRequestColumns+`, e.full_name AS employee_name
		FROM leave_requests l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE %s
		ORDER BY l.applied_date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.LeaveType, &lr.StartDate, &lr.EndDate, &lr.TotalDays,
			&lr.Reason, &lr.Status, &lr.AppliedDate, &lr.ApprovedBy, &lr.ApprovedDate,
			&lr.RejectionReason, &lr.CreatedAt, &lr.UpdatedAt,
			&lr.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}

	return requests, total, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}
