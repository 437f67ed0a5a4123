package salarychange

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_change_repo.go -destination=mock/salary_change_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, change *SalaryChange) error
	FindLatestByEmployee(ctx context.Context, employeeID int64) (*SalaryChange, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]SalaryChange, error)
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

func (r *repository) Insert(ctx context.Context, change *SalaryChange) error {
	query := `
        INSERT INTO salary_changes (employee_id, previous_salary, new_salary, reason, change_type, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id
    `

	return r.querier().
		QueryRowContext(ctx, query,
			change.EmployeeID, change.PreviousSalary, change.NewSalary,
			change.Reason, change.ChangeType,
		).
		Scan(&change.ID)
}

// FindLatestByEmployee must observe rows written in the caller's open
// transaction, so it always goes through the raw handle. Highest id wins.
func (r *repository) FindLatestByEmployee(ctx context.Context, employeeID int64) (*SalaryChange, error) {
	query := `
        SELECT id, employee_id, previous_salary, new_salary, reason, change_type, created_at
        FROM salary_changes
        WHERE employee_id = $1
        ORDER BY id DESC
        LIMIT 1
    `

	var change SalaryChange
	err := r.querier().
		QueryRowContext(ctx, query, employeeID).
		Scan(
			&change.ID, &change.EmployeeID, &change.PreviousSalary,
			&change.NewSalary, &change.Reason, &change.ChangeType, &change.CreatedAt,
		)
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID int64) ([]SalaryChange, error) {
	var changes []SalaryChange
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		Find(&changes).Error
	return changes, err
}
