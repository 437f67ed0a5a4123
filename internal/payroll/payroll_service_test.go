package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	"github.com/CodifyCanvas/Foodya-sub001/internal/events"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka"
	"github.com/CodifyCanvas/Foodya-sub001/internal/payroll"
	payrollerrors "github.com/CodifyCanvas/Foodya-sub001/internal/payroll/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePayrollRepository struct {
	withTxFn               func(tx *sql.Tx) payroll.Repository
	createFn               func(ctx context.Context, record *payroll.PayrollRecord) error
	existsForMonthFn       func(ctx context.Context, employeeID int64, month string) (bool, error)
	findUnpaidByEmployeeFn func(ctx context.Context, employeeID int64) ([]payroll.PayrollRecord, error)
	summaryByEmployeeFn    func(ctx context.Context, employeeID int64) (payroll.PayrollSummary, error)
	findByIDForUpdateFn    func(ctx context.Context, id int64) (*payroll.PayrollRecord, error)
	updateAmountsFn        func(ctx context.Context, id int64, bonus, penalty, total decimal.Decimal) (int64, error)
	markPaidFn             func(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, record *payroll.PayrollRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, record)
	}
	record.ID = 1
	return nil
}

func (f *fakePayrollRepository) ExistsForMonth(ctx context.Context, employeeID int64, month string) (bool, error) {
	if f.existsForMonthFn != nil {
		return f.existsForMonthFn(ctx, employeeID, month)
	}
	return false, nil
}

func (f *fakePayrollRepository) FindUnpaidByEmployee(ctx context.Context, employeeID int64) ([]payroll.PayrollRecord, error) {
	if f.findUnpaidByEmployeeFn != nil {
		return f.findUnpaidByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) SummaryByEmployee(ctx context.Context, employeeID int64) (payroll.PayrollSummary, error) {
	if f.summaryByEmployeeFn != nil {
		return f.summaryByEmployeeFn(ctx, employeeID)
	}
	return payroll.PayrollSummary{}, nil
}

func (f *fakePayrollRepository) FindByIDForUpdate(ctx context.Context, id int64) (*payroll.PayrollRecord, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return &payroll.PayrollRecord{ID: id}, nil
}

func (f *fakePayrollRepository) UpdateAmounts(ctx context.Context, id int64, bonus, penalty, total decimal.Decimal) (int64, error) {
	if f.updateAmountsFn != nil {
		return f.updateAmountsFn(ctx, id, bonus, penalty, total)
	}
	return 1, nil
}

func (f *fakePayrollRepository) MarkPaid(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error) {
	if f.markPaidFn != nil {
		return f.markPaidFn(ctx, employeeID, ids, paidAt)
	}
	return int64(len(ids)), nil
}

type fakeEmployeeRepository struct {
	findByIDFn    func(ctx context.Context, id int64) (*employee.Employee, error)
	findPayableFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return &employee.Employee{ID: id}, nil
}

func (f *fakeEmployeeRepository) FindByIDForUpdate(ctx context.Context, id int64) (*employee.Employee, error) {
	return &employee.Employee{ID: id}, nil
}

func (f *fakeEmployeeRepository) UpdateCurrentSalary(ctx context.Context, id int64, salary *decimal.Decimal) (int64, error) {
	return 1, nil
}

func (f *fakeEmployeeRepository) FindPayable(ctx context.Context) ([]employee.Employee, error) {
	if f.findPayableFn != nil {
		return f.findPayableFn(ctx)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service payroll.Service
	repo    *fakePayrollRepository
	empRepo *fakeEmployeeRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	empRepo := &fakeEmployeeRepository{}
	svc := payroll.NewService(db, repo, empRepo, nil)

	return &payrollServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, empRepo: empRepo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func payableEmployee(id int64, salary int64) employee.Employee {
	s := decimal.NewFromInt(salary)
	return employee.Employee{ID: id, CurrentSalary: &s}
}

func TestPayrollService_Refresh(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.empRepo.findPayableFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{payableEmployee(1, 50000), payableEmployee(2, 60000)}, nil
	}

	var created []*payroll.PayrollRecord
	deps.repo.createFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
		record.ID = int64(len(created) + 1)
		created = append(created, record)
		return nil
	}

	resp, err := deps.service.Refresh(ctx, "2025-08")

	assert.NoError(t, err)
	assert.Equal(t, "2025-08", resp.Period)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 0, resp.Skipped)
	assert.Empty(t, resp.FailedEmployeeIDs)

	if assert.Len(t, created, 2) {
		assert.Equal(t, "2025-08", created[0].Month)
		assert.True(t, created[0].BasicPay.Equal(decimal.NewFromInt(50000)))
		assert.True(t, created[0].Bonus.IsZero())
		assert.True(t, created[0].Penalty.IsZero())
		assert.True(t, created[0].TotalPay.Equal(decimal.NewFromInt(50000)))
	}
}

// A second refresh for the same period must not touch existing rows.
// Adjustments applied between the two runs survive.
func TestPayrollService_Refresh_Idempotent(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.empRepo.findPayableFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{payableEmployee(1, 50000), payableEmployee(2, 60000)}, nil
	}
	deps.repo.existsForMonthFn = func(ctx context.Context, employeeID int64, month string) (bool, error) {
		return employeeID == 1, nil
	}

	createCalls := 0
	deps.repo.createFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
		createCalls++
		assert.Equal(t, int64(2), record.EmployeeID)
		return nil
	}

	resp, err := deps.service.Refresh(ctx, "2025-08")

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 1, createCalls)
}

// A concurrent refresh can insert between the existence check and the
// insert. The unique index turns that into a skip, not a failure.
func TestPayrollService_Refresh_UniqueViolationIsSkip(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.empRepo.findPayableFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{payableEmployee(1, 50000)}, nil
	}
	deps.repo.createFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
		return &pgconn.PgError{Code: "23505"}
	}

	resp, err := deps.service.Refresh(ctx, "2025-08")

	assert.NoError(t, err)
	assert.Equal(t, 0, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	assert.Empty(t, resp.FailedEmployeeIDs)
}

func TestPayrollService_Refresh_FailureIsolation(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.empRepo.findPayableFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{payableEmployee(1, 50000), payableEmployee(2, 60000), payableEmployee(3, 70000)}, nil
	}
	deps.repo.createFn = func(ctx context.Context, record *payroll.PayrollRecord) error {
		if record.EmployeeID == 2 {
			return errors.New("db error")
		}
		return nil
	}

	resp, err := deps.service.Refresh(ctx, "2025-08")

	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, []int64{2}, resp.FailedEmployeeIDs)
}

func TestPayrollService_Refresh_Period(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	t.Run("bad format", func(t *testing.T) {
		_, err := deps.service.Refresh(ctx, "08-2025")
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriodFormat)
	})

	t.Run("empty defaults to current month", func(t *testing.T) {
		resp, err := deps.service.Refresh(ctx, "")
		assert.NoError(t, err)
		assert.Equal(t, time.Now().UTC().Format("2006-01"), resp.Period)
	})
}

func TestPayrollService_MarkUnpaidAsPaid(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.markPaidFn = func(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error) {
		assert.Equal(t, int64(42), employeeID)
		assert.Equal(t, []int64{10, 11}, ids)
		return 2, nil
	}

	resp, err := deps.service.MarkUnpaidAsPaid(ctx, 42, "7", []int64{10, 11})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.RowsUpdated)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

// If any listed record is unknown, paid, or belongs to someone else,
// the whole batch rolls back and nothing is marked.
func TestPayrollService_MarkUnpaidAsPaid_ConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.markPaidFn = func(ctx context.Context, employeeID int64, ids []int64, paidAt time.Time) (int64, error) {
		return 1, nil
	}

	_, err := deps.service.MarkUnpaidAsPaid(ctx, 42, "7", []int64{10, 11})

	assert.ErrorIs(t, err, payrollerrors.ErrSettlementConflict)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_MarkUnpaidAsPaid_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	cases := []struct {
		name    string
		ids     []int64
		wantErr error
	}{
		{name: "empty batch", ids: nil, wantErr: payrollerrors.ErrEmptySettlementBatch},
		{name: "duplicate ids", ids: []int64{10, 10}, wantErr: payrollerrors.ErrDuplicateSettlementIDs},
		{name: "non-positive id", ids: []int64{0}, wantErr: payrollerrors.ErrInvalidPayrollID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := deps.service.MarkUnpaidAsPaid(ctx, 42, "7", tc.ids)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_MarkUnpaidAsPaid_QueuesSettledEvent(t *testing.T) {
	ctx := context.Background()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakePayrollRepository{}
	empRepo := &fakeEmployeeRepository{}
	outbox := &fakeOutboxRepository{
		createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollSettledTopic, event.Topic)

			var payload events.PayrollSettledEvent
			assert.NoError(t, json.Unmarshal(event.Payload, &payload))
			assert.Equal(t, int64(42), payload.EmployeeID)
			assert.Equal(t, []int64{10}, payload.PayrollIDs)
			assert.Equal(t, "7", payload.SettledBy)
			return nil
		},
	}
	svc := payroll.NewServiceWithOutbox(db, repo, empRepo, outbox, nil)

	expectTx(t, sqlMock, true)
	_, err = svc.MarkUnpaidAsPaid(ctx, 42, "7", []int64{10})

	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Adjust(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*payroll.PayrollRecord, error) {
		return &payroll.PayrollRecord{
			ID:         id,
			EmployeeID: 42,
			Month:      "2025-08",
			BasicPay:   decimal.NewFromInt(50000),
			Bonus:      decimal.Zero,
			Penalty:    decimal.Zero,
			TotalPay:   decimal.NewFromInt(50000),
		}, nil
	}

	var gotTotal decimal.Decimal
	deps.repo.updateAmountsFn = func(ctx context.Context, id int64, bonus, penalty, total decimal.Decimal) (int64, error) {
		gotTotal = total
		return 1, nil
	}

	resp, err := deps.service.Adjust(ctx, 10, payroll.AdjustPayrollRequest{Bonus: "1000", Penalty: "250"})

	assert.NoError(t, err)
	assert.True(t, gotTotal.Equal(decimal.NewFromInt(50750)))
	assert.Equal(t, "50750.00", resp.TotalPay)
	assert.Equal(t, "1000.00", resp.Bonus)
	assert.Equal(t, "250.00", resp.Penalty)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Adjust_PaidRecord(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	paidAt := time.Now().UTC()
	deps.repo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*payroll.PayrollRecord, error) {
		return &payroll.PayrollRecord{ID: id, EmployeeID: 42, PaidAt: &paidAt}, nil
	}

	_, err := deps.service.Adjust(ctx, 10, payroll.AdjustPayrollRequest{Bonus: "1000", Penalty: "0"})

	assert.ErrorIs(t, err, payrollerrors.ErrAdjustPaidPayroll)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Adjust_RejectsNegative(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Adjust(ctx, 10, payroll.AdjustPayrollRequest{Bonus: "-1", Penalty: "0"})
	assert.ErrorIs(t, err, payrollerrors.ErrNegativeAdjustment)

	_, err = deps.service.Adjust(ctx, 10, payroll.AdjustPayrollRequest{Bonus: "0", Penalty: "abc"})
	assert.ErrorIs(t, err, payrollerrors.ErrNegativeAdjustment)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Adjust_NotFound(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	deps.repo.findByIDForUpdateFn = func(ctx context.Context, id int64) (*payroll.PayrollRecord, error) {
		return nil, sql.ErrNoRows
	}

	_, err := deps.service.Adjust(ctx, 999, payroll.AdjustPayrollRequest{Bonus: "0", Penalty: "0"})

	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_GetEmployeePayrolls_CachesSummary(t *testing.T) {
	ctx := context.Background()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	repo := &fakePayrollRepository{
		findUnpaidByEmployeeFn: func(ctx context.Context, employeeID int64) ([]payroll.PayrollRecord, error) {
			return []payroll.PayrollRecord{
				{ID: 10, EmployeeID: employeeID, Month: "2025-08", BasicPay: decimal.NewFromInt(50000), TotalPay: decimal.NewFromInt(50000)},
			}, nil
		},
		summaryByEmployeeFn: func(ctx context.Context, employeeID int64) (payroll.PayrollSummary, error) {
			return payroll.PayrollSummary{
				TotalPaid:   decimal.NewFromInt(100000),
				TotalUnpaid: decimal.NewFromInt(50000),
				UnpaidCount: 1,
			}, nil
		},
	}
	empRepo := &fakeEmployeeRepository{}
	svc := payroll.NewService(db, repo, empRepo, rdb)

	cacheKey := payroll.GetSummaryCacheKey(42)
	expected := payroll.PayrollSummaryResponse{
		EmployeeID:  42,
		TotalPaid:   "100000.00",
		TotalUnpaid: "50000.00",
		UnpaidCount: 1,
	}
	expectedJSON, err := json.Marshal(expected)
	assert.NoError(t, err)

	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSet(cacheKey, expectedJSON, 10*time.Minute).SetVal("OK")

	resp, err := svc.GetEmployeePayrolls(ctx, 42)

	assert.NoError(t, err)
	assert.Len(t, resp.Payrolls, 1)
	assert.Equal(t, expected, resp.Summary)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPayrollService_GetEmployeePayrolls_CacheHitSkipsRepo(t *testing.T) {
	ctx := context.Background()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	summaryCalls := 0
	repo := &fakePayrollRepository{
		summaryByEmployeeFn: func(ctx context.Context, employeeID int64) (payroll.PayrollSummary, error) {
			summaryCalls++
			return payroll.PayrollSummary{}, nil
		},
	}
	empRepo := &fakeEmployeeRepository{}
	svc := payroll.NewService(db, repo, empRepo, rdb)

	cached := payroll.PayrollSummaryResponse{
		EmployeeID:  42,
		TotalPaid:   "100000.00",
		TotalUnpaid: "0.00",
		UnpaidCount: 0,
	}
	cachedJSON, err := json.Marshal(cached)
	assert.NoError(t, err)

	redisMock.ExpectGet(payroll.GetSummaryCacheKey(42)).SetVal(string(cachedJSON))

	resp, err := svc.GetEmployeePayrolls(ctx, 42)

	assert.NoError(t, err)
	assert.Equal(t, cached, resp.Summary)
	assert.Equal(t, 0, summaryCalls)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
