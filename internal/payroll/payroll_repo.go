package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayrollSummary struct {
	TotalPaid   decimal.Decimal
	TotalUnpaid decimal.Decimal
	UnpaidCount int64
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *PayrollRecord) error
	ExistsForMonth(ctx context.Context, employeeID int64, month string) (bool, error)
	FindUnpaidByEmployee(ctx context.Context, employeeID int64) ([]PayrollRecord, error)
	SummaryByEmployee(ctx context.Context, employeeID int64) (PayrollSummary, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*PayrollRecord, error)
	UpdateAmounts(ctx context.Context, id int64, bonus, penalty, total decimal.Decimal) (int64, error)
	MarkPaid(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *repository) querier() rowQuerier {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return sqlDB
}

func (r *repository) Create(ctx context.Context, record *PayrollRecord) error {
	query := `
        INSERT INTO payroll_records (employee_id, month, basic_pay, bonus, penalty, total_pay, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id
    `

	return r.querier().
		QueryRowContext(ctx, query,
			record.EmployeeID, record.Month,
			record.BasicPay, record.Bonus, record.Penalty, record.TotalPay,
		).
		Scan(&record.ID)
}

func (r *repository) ExistsForMonth(ctx context.Context, employeeID int64, month string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindUnpaidByEmployee(ctx context.Context, employeeID int64) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("paid_at IS NULL").
		Order("month ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) SummaryByEmployee(ctx context.Context, employeeID int64) (PayrollSummary, error) {
	var summary PayrollSummary
	query := `
SELECT
	COALESCE(SUM(total_pay) FILTER (WHERE paid_at IS NOT NULL), 0) AS total_paid,
	COALESCE(SUM(total_pay) FILTER (WHERE paid_at IS NULL), 0)     AS total_unpaid,
	COUNT(*) FILTER (WHERE paid_at IS NULL)                        AS unpaid_count
FROM payroll_records
WHERE employee_id = ?
`

	err := r.db.WithContext(ctx).Raw(query, employeeID).Scan(&summary).Error
	return summary, err
}

// FindByIDForUpdate locks the payroll row for the caller's transaction.
func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*PayrollRecord, error) {
	query := `
        SELECT id, employee_id, month, basic_pay, bonus, penalty, total_pay, paid_at
        FROM payroll_records
        WHERE id = $1
        FOR UPDATE
    `

	var record PayrollRecord
	err := r.querier().
		QueryRowContext(ctx, query, id).
		Scan(
			&record.ID, &record.EmployeeID, &record.Month,
			&record.BasicPay, &record.Bonus, &record.Penalty, &record.TotalPay,
			&record.PaidAt,
		)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) UpdateAmounts(ctx context.Context, id int64, bonus, penalty, total decimal.Decimal) (int64, error) {
	query := `
        UPDATE payroll_records
        SET bonus = $1, penalty = $2, total_pay = $3, updated_at = NOW()
        WHERE id = $4 AND paid_at IS NULL
    `

	res, err := r.querier().ExecContext(ctx, query, bonus, penalty, total, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkPaid flips paid_at for the listed rows, guarded by paid_at IS NULL
// so a concurrent settlement can never win the same row twice. The
// caller compares the affected count against len(ids) and rolls back on
// mismatch.
func (r *repository) MarkPaid(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, paidAt, employeeID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, id)
	}

	query := fmt.Sprintf(`
        UPDATE payroll_records
        SET paid_at = $1, updated_at = NOW()
        WHERE employee_id = $2
          AND paid_at IS NULL
          AND id IN (%s)
    `, strings.Join(placeholders, ", "))

	res, err := r.querier().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
