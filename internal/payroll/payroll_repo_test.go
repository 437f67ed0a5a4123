package payroll_test

import (
	"context"
	"testing"

	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestPayrollRepository_Create_JoinsTransaction(t *testing.T) {
	ctx := context.Background()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	repo := payroll.NewRepository(gormDB)

	basic := decimal.NewFromInt(50000)
	zero := decimal.Zero

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery("INSERT INTO payroll_records").
		WithArgs(int64(42), "2025-08", basic, zero, zero, basic).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	sqlMock.ExpectRollback()

	tx, err := db.Begin()
	assert.NoError(t, err)

	record := &payroll.PayrollRecord{
		EmployeeID: 42,
		Month:      "2025-08",
		BasicPay:   basic,
		Bonus:      zero,
		Penalty:    zero,
		TotalPay:   basic,
	}
	err = repo.WithTx(tx).Create(ctx, record)

	assert.NoError(t, err)
	assert.Equal(t, int64(10), record.ID)
	assert.NoError(t, tx.Rollback())

	// Ordered expectations: the insert must run between Begin and
	// Rollback, i.e. on the transaction handle.
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
