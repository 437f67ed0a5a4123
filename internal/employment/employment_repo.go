package employment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employment_repo.go -destination=mock/employment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, record *EmploymentRecord) error
	ListByEmployee(ctx context.Context, employeeID int64) ([]EmploymentRecord, error)
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

func (r *repository) Insert(ctx context.Context, record *EmploymentRecord) error {
	query := `
        INSERT INTO employment_records (employee_id, designation, shift, status, joined_at, resigned_at, change_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        RETURNING id
    `

	return r.querier().
		QueryRowContext(ctx, query,
			record.EmployeeID, record.Designation, record.Shift, record.Status,
			record.JoinedAt, record.ResignedAt, record.ChangeType,
		).
		Scan(&record.ID)
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID int64) ([]EmploymentRecord, error) {
	var records []EmploymentRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		Find(&records).Error
	return records, err
}
