package employee

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, emp *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*Employee, error)
	UpdateCurrentSalary(ctx context.Context, id int64, salary *decimal.Decimal) (int64, error)
	FindPayable(ctx context.Context) ([]Employee, error)
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

// Statements that must join an open transaction go through the raw
// handle; plain reads stay on gorm.
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

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	query := `
        INSERT INTO employees (employee_number, full_name, email, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING id
    `

	return r.querier().
		QueryRowContext(ctx, query, emp.EmployeeNumber, emp.FullName, emp.Email).
		Scan(&emp.ID)
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error
	return &emp, err
}

// FindByIDForUpdate locks the employee row for the rest of the caller's
// transaction. This is the serialization point for all projection writes
// against the same employee.
func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*Employee, error) {
	query := `
        SELECT id, employee_number, full_name, email, current_salary
        FROM employees
        WHERE id = $1
        FOR UPDATE
    `

	var emp Employee
	err := r.querier().
		QueryRowContext(ctx, query, id).
		Scan(&emp.ID, &emp.EmployeeNumber, &emp.FullName, &emp.Email, &emp.CurrentSalary)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) UpdateCurrentSalary(ctx context.Context, id int64, salary *decimal.Decimal) (int64, error) {
	query := `
        UPDATE employees
        SET current_salary = $1, updated_at = NOW()
        WHERE id = $2
    `

	res, err := r.querier().ExecContext(ctx, query, salary, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) FindPayable(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("current_salary IS NOT NULL").
		Order("id ASC").
		Find(&employees).Error
	return employees, err
}
