package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	"github.com/CodifyCanvas/Foodya-sub001/internal/events"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka"
	payrollerrors "github.com/CodifyCanvas/Foodya-sub001/internal/payroll/errors"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const SummaryCacheKeyPrefix = "payrolls:summary:"

const summaryCacheTTL = 10 * time.Minute

func GetSummaryCacheKey(employeeID int64) string {
	return fmt.Sprintf("%s%d", SummaryCacheKeyPrefix, employeeID)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Refresh(ctx context.Context, period string) (RefreshPayrollsResponse, error)
	GetEmployeePayrolls(ctx context.Context, employeeID int64) (EmployeePayrollsResponse, error)
	MarkUnpaidAsPaid(ctx context.Context, employeeID int64, actorID string, payrollIDs []int64) (SettlePayrollsResponse, error)
	Adjust(ctx context.Context, payrollID int64, req AdjustPayrollRequest) (PayrollResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	outbox       kafka.OutboxRepository
	rdb          *redis.Client
	sf           *singleflight.Group
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employeeRepo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		outbox:       outboxRepo,
		rdb:          rdb,
		sf:           &singleflight.Group{},
		logger:       l,
	}
}

// Refresh generates one payroll record per effectively-employed
// employee for the period. It is idempotent: existing rows are skipped,
// never overwritten, so bonus/penalty already applied survive a rerun.
// Employees are processed independently; one failure never aborts the
// rest of the batch.
func (s *service) Refresh(ctx context.Context, period string) (RefreshPayrollsResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	month, err := normalizePeriod(period)
	if err != nil {
		return RefreshPayrollsResponse{}, err
	}

	employees, err := s.employeeRepo.FindPayable(ctx)
	if err != nil {
		return RefreshPayrollsResponse{}, err
	}

	resp := RefreshPayrollsResponse{
		Period:            month,
		FailedEmployeeIDs: []int64{},
	}

	for _, emp := range employees {
		if emp.CurrentSalary == nil {
			continue
		}

		created, err := s.generateForEmployee(ctx, emp.ID, *emp.CurrentSalary, month)
		if err != nil {
			s.logger.Error("generate payroll for employee failed",
				zap.String("request_id", rid),
				zap.Int64("employee_id", emp.ID),
				zap.String("period", month),
				zap.Error(err),
			)
			resp.FailedEmployeeIDs = append(resp.FailedEmployeeIDs, emp.ID)
			continue
		}

		if created {
			resp.Created++
		} else {
			resp.Skipped++
		}
	}

	s.logger.Info("payroll refresh finished",
		zap.String("request_id", rid),
		zap.String("period", month),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
		zap.Int("failed", len(resp.FailedEmployeeIDs)),
	)

	return resp, nil
}

func (s *service) generateForEmployee(ctx context.Context, employeeID int64, salary decimal.Decimal, month string) (bool, error) {
	exists, err := s.repo.ExistsForMonth(ctx, employeeID, month)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	record := &PayrollRecord{
		EmployeeID: employeeID,
		Month:      month,
		BasicPay:   salary,
		Bonus:      decimal.Zero,
		Penalty:    decimal.Zero,
		TotalPay:   totalPay(salary, decimal.Zero, decimal.Zero),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// A concurrent refresh inserted the row between the existence
		// check and the insert. The unique index makes that a skip,
		// not a failure.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *service) GetEmployeePayrolls(ctx context.Context, employeeID int64) (EmployeePayrollsResponse, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return EmployeePayrollsResponse{}, mapRepositoryError(err)
	}

	records, err := s.repo.FindUnpaidByEmployee(ctx, employeeID)
	if err != nil {
		return EmployeePayrollsResponse{}, mapRepositoryError(err)
	}

	summary, err := s.getSummary(ctx, employeeID)
	if err != nil {
		return EmployeePayrollsResponse{}, err
	}

	payrolls := make([]PayrollResponse, len(records))
	for i, record := range records {
		payrolls[i] = mapToResponse(record)
	}

	return EmployeePayrollsResponse{
		Payrolls: payrolls,
		Summary:  summary,
	}, nil
}

func (s *service) getSummary(ctx context.Context, employeeID int64) (PayrollSummaryResponse, error) {
	cacheKey := GetSummaryCacheKey(employeeID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp PayrollSummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		summary, err := s.repo.SummaryByEmployee(ctx, employeeID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := PayrollSummaryResponse{
			EmployeeID:  employeeID,
			TotalPaid:   summary.TotalPaid.StringFixed(2),
			TotalUnpaid: summary.TotalUnpaid.StringFixed(2),
			UnpaidCount: summary.UnpaidCount,
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, summaryCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return PayrollSummaryResponse{}, err
	}

	return v.(PayrollSummaryResponse), nil
}

// MarkUnpaidAsPaid settles a batch atomically. Every listed id must
// belong to the employee and still be unpaid; otherwise nothing is
// mutated and the caller gets a conflict. The conditional update also
// decides races between two settlements touching the same rows: only
// one can see paid_at IS NULL.
func (s *service) MarkUnpaidAsPaid(
	ctx context.Context,
	employeeID int64,
	actorID string,
	payrollIDs []int64,
) (SettlePayrollsResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if len(payrollIDs) == 0 {
		return SettlePayrollsResponse{}, payrollerrors.ErrEmptySettlementBatch
	}
	seen := make(map[int64]struct{}, len(payrollIDs))
	for _, id := range payrollIDs {
		if id <= 0 {
			return SettlePayrollsResponse{}, payrollerrors.ErrInvalidPayrollID
		}
		if _, ok := seen[id]; ok {
			return SettlePayrollsResponse{}, payrollerrors.ErrDuplicateSettlementIDs
		}
		seen[id] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("settle payrolls begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SettlePayrollsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affected, err := qtx.MarkPaid(ctx, employeeID, payrollIDs, time.Now().UTC())
	if err != nil {
		return SettlePayrollsResponse{}, err
	}

	if affected != int64(len(payrollIDs)) {
		s.logger.Warn("settle payrolls conflict, rolling back",
			zap.String("request_id", rid),
			zap.Int64("employee_id", employeeID),
			zap.Int64("affected", affected),
			zap.Int("requested", len(payrollIDs)),
		)
		return SettlePayrollsResponse{}, payrollerrors.ErrSettlementConflict
	}

	if s.outbox != nil {
		event := events.PayrollSettledEvent{
			EventType:  "payroll_settled",
			EmployeeID: employeeID,
			PayrollIDs: payrollIDs,
			SettledBy:  actorID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return SettlePayrollsResponse{}, err
		}

		err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "payroll",
			AggregateID:   fmt.Sprintf("%d", employeeID),
			EventType:     event.EventType,
			Topic:         events.PayrollSettledTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return SettlePayrollsResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return SettlePayrollsResponse{}, err
	}

	s.invalidateSummary(ctx, employeeID)

	s.logger.Info("payrolls settled",
		zap.String("request_id", rid),
		zap.Int64("employee_id", employeeID),
		zap.Int64("rows_updated", affected),
	)

	return SettlePayrollsResponse{
		Message:     "Payroll records marked as paid",
		RowsUpdated: affected,
	}, nil
}

// Adjust sets bonus/penalty on an unpaid record and recomputes
// total_pay. TotalPay is never accepted from the caller.
func (s *service) Adjust(ctx context.Context, payrollID int64, req AdjustPayrollRequest) (PayrollResponse, error) {
	bonus, err := decimal.NewFromString(strings.TrimSpace(req.Bonus))
	if err != nil || bonus.IsNegative() {
		return PayrollResponse{}, payrollerrors.ErrNegativeAdjustment
	}
	penalty, err := decimal.NewFromString(strings.TrimSpace(req.Penalty))
	if err != nil || penalty.IsNegative() {
		return PayrollResponse{}, payrollerrors.ErrNegativeAdjustment
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByIDForUpdate(ctx, payrollID)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if record.PaidAt != nil {
		return PayrollResponse{}, payrollerrors.ErrAdjustPaidPayroll
	}

	total := totalPay(record.BasicPay, bonus, penalty)
	if _, err := qtx.UpdateAmounts(ctx, payrollID, bonus, penalty, total); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.invalidateSummary(ctx, record.EmployeeID)

	record.Bonus = bonus
	record.Penalty = penalty
	record.TotalPay = total
	return mapToResponse(*record), nil
}

func (s *service) invalidateSummary(ctx context.Context, employeeID int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, GetSummaryCacheKey(employeeID)).Err(); err != nil {
		s.logger.Warn("invalidate payroll summary cache failed",
			zap.Int64("employee_id", employeeID),
			zap.Error(err),
		)
	}
}

func normalizePeriod(period string) (string, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return time.Now().UTC().Format(monthLayout), nil
	}

	t, err := time.Parse(monthLayout, period)
	if err != nil {
		return "", payrollerrors.ErrInvalidPeriodFormat
	}
	return t.Format(monthLayout), nil
}

func mapToResponse(record PayrollRecord) PayrollResponse {
	resp := PayrollResponse{
		ID:         record.ID,
		EmployeeID: record.EmployeeID,
		Month:      record.Month,
		BasicPay:   record.BasicPay.StringFixed(2),
		Bonus:      record.Bonus.StringFixed(2),
		Penalty:    record.Penalty.StringFixed(2),
		TotalPay:   record.TotalPay.StringFixed(2),
	}

	if record.PaidAt != nil {
		v := record.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}
