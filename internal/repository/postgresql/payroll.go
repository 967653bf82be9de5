package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/payroll"
	"github.com/clockwork-hr/ledger-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

const payrollColumns = `
	p.id, p.employee_id, p.period_month, p.period_year,
	p.basic_salary,
	p.allowance_hra, p.allowance_transport, p.allowance_medical, p.allowance_other,
	p.deduction_tax, p.deduction_pf, p.deduction_insurance, p.deduction_other,
	p.overtime_hours, p.overtime_rate, p.overtime_amount, p.bonus,
	p.total_earnings, p.total_deductions, p.net_salary,
	p.working_days, p.present_days, p.leave_days,
	p.status, p.processed_date, p.payment_date,
	p.created_at, p.updated_at
`

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BasicSalary,
		&rec.Allowances.HRA, &rec.Allowances.Transport, &rec.Allowances.Medical, &rec.Allowances.Other,
		&rec.Deductions.Tax, &rec.Deductions.PF, &rec.Deductions.Insurance, &rec.Deductions.Other,
		&rec.Overtime.Hours, &rec.Overtime.Rate, &rec.Overtime.Amount, &rec.Bonus,
		&rec.TotalEarnings, &rec.TotalDeductions, &rec.NetSalary,
		&rec.WorkingDays, &rec.PresentDays, &rec.LeaveDays,
		&rec.Status, &rec.ProcessedDate, &rec.PaymentDate,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year,
			basic_salary,
			allowance_hra, allowance_transport, allowance_medical, allowance_other,
			deduction_tax, deduction_pf, deduction_insurance, deduction_other,
			overtime_hours, overtime_rate, overtime_amount, bonus,
			total_earnings, total_deductions, net_salary,
			working_days, present_days, leave_days,
			status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.PeriodMonth, rec.PeriodYear,
		rec.BasicSalary,
		rec.Allowances.HRA, rec.Allowances.Transport, rec.Allowances.Medical, rec.Allowances.Other,
		rec.Deductions.Tax, rec.Deductions.PF, rec.Deductions.Insurance, rec.Deductions.Other,
		rec.Overtime.Hours, rec.Overtime.Rate, rec.Overtime.Amount, rec.Bonus,
		rec.TotalEarnings, rec.TotalDeductions, rec.NetSalary,
		rec.WorkingDays, rec.PresentDays, rec.LeaveDays,
		rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.PayrollRecord{}, payroll.ErrAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `, e.full_name AS employee_name
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	var rec payroll.PayrollRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BasicSalary,
		&rec.Allowances.HRA, &rec.Allowances.Transport, &rec.Allowances.Medical, &rec.Allowances.Other,
		&rec.Deductions.Tax, &rec.Deductions.PF, &rec.Deductions.Insurance, &rec.Deductions.Other,
		&rec.Overtime.Hours, &rec.Overtime.Rate, &rec.Overtime.Amount, &rec.Bonus,
		&rec.TotalEarnings, &rec.TotalDeductions, &rec.NetSalary,
		&rec.WorkingDays, &rec.PresentDays, &rec.LeaveDays,
		&rec.Status, &rec.ProcessedDate, &rec.PaymentDate,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by ID: %w", err)
	}

	return rec, nil
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (*payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		WHERE p.employee_id = $1 AND p.period_month = $2 AND p.period_year = $3
		LIMIT 1
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll record by period: %w", err)
	}

	return &rec, nil
}

// Update implements payroll.PayrollRepository.
//
// Paid rows are excluded in the predicate so an update racing a payment
// cannot touch an immutable record.
func (r *payrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			allowance_hra       = $2,
			allowance_transport = $3,
			allowance_medical   = $4,
			allowance_other     = $5,
			deduction_tax       = $6,
			deduction_pf        = $7,
			deduction_insurance = $8,
			deduction_other     = $9,
			overtime_hours      = $10,
			overtime_rate       = $11,
			overtime_amount     = $12,
			bonus               = $13,
			total_earnings      = $14,
			total_deductions    = $15,
			net_salary          = $16,
			updated_at          = now()
		WHERE id = $1 AND status <> 'paid'
		RETURNING id, employee_id, period_month, period_year,
			basic_salary,
			allowance_hra, allowance_transport, allowance_medical, allowance_other,
			deduction_tax, deduction_pf, deduction_insurance, deduction_other,
			overtime_hours, overtime_rate, overtime_amount, bonus,
			total_earnings, total_deductions, net_salary,
			working_days, present_days, leave_days,
			status, processed_date, payment_date,
			created_at, updated_at
	`

	updated, err := scanPayroll(q.QueryRow(ctx, query,
		rec.ID,
		rec.Allowances.HRA, rec.Allowances.Transport, rec.Allowances.Medical, rec.Allowances.Other,
		rec.Deductions.Tax, rec.Deductions.PF, rec.Deductions.Insurance, rec.Deductions.Other,
		rec.Overtime.Hours, rec.Overtime.Rate, rec.Overtime.Amount,
		rec.Bonus,
		rec.TotalEarnings, rec.TotalDeductions, rec.NetSalary,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrImmutable
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return updated, nil
}

// Transition implements payroll.PayrollRepository.
//
// One conditional write per step: the row moves only out of the expected
// status, so concurrent transitions resolve to a single winner.
func (r *payrollRepository) Transition(ctx context.Context, id string, from, to payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	stampColumn := "processed_date"
	if to == payroll.PayrollStatusPaid {
		stampColumn = "payment_date"
	}

	query := fmt.Sprintf(`
		UPDATE payroll_records SET
			status     = $2,
			%s         = now(),
			updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING id, employee_id, period_month, period_year,
			basic_salary,
			allowance_hra, allowance_transport, allowance_medical, allowance_other,
			deduction_tax, deduction_pf, deduction_insurance, deduction_other,
			overtime_hours, overtime_rate, overtime_amount, bonus,
			total_earnings, total_deductions, net_salary,
			working_days, present_days, leave_days,
			status, processed_date, payment_date,
			created_at, updated_at
	`, stampColumn)

	rec, err := scanPayroll(q.QueryRow(ctx, query, id, to, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrInvalidTransition
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to transition payroll record: %w", err)
	}

	return rec, nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		baseWhere += fmt.Sprintf(" AND p.period_month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseWhere += fmt.Sprintf(" AND p.period_year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM payroll_records p WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+payrollColumns+`, e.full_name AS employee_name
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY p.period_year DESC, p.period_month DESC
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
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
			&rec.BasicSalary,
			&rec.Allowances.HRA, &rec.Allowances.Transport, &rec.Allowances.Medical, &rec.Allowances.Other,
			&rec.Deductions.Tax, &rec.Deductions.PF, &rec.Deductions.Insurance, &rec.Deductions.Other,
			&rec.Overtime.Hours, &rec.Overtime.Rate, &rec.Overtime.Amount, &rec.Bonus,
			&rec.TotalEarnings, &rec.TotalDeductions, &rec.NetSalary,
			&rec.WorkingDays, &rec.PresentDays, &rec.LeaveDays,
			&rec.Status, &rec.ProcessedDate, &rec.PaymentDate,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// ListByYear implements payroll.PayrollRepository.
func (r *payrollRepository) ListByYear(ctx context.Context, year int, employeeID *string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payroll_records p
		WHERE p.period_year = $1
	`
	args := []interface{}{year}
	if employeeID != nil && *employeeID != "" {
		query += " AND p.employee_id = $2"
		args = append(args, *employeeID)
	}
	query += " ORDER BY p.period_month"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records by year: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}
