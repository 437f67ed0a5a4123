package salarychange

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
	salarychangeerrors "github.com/CodifyCanvas/Foodya-sub001/internal/salarychange/errors"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=salary_change_service.go -destination=mock/salary_change_service_mock.go -package=mock
type Service interface {
	Append(ctx context.Context, employeeID int64, req AppendSalaryChangeRequest) (AppendSalaryChangeResponse, error)
	History(ctx context.Context, employeeID int64) ([]SalaryChangeResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employeeRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salarychange.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarychange.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		outbox:       outboxRepo,
		logger:       l,
	}
}

// Append inserts the ledger row and rewrites the projection in one
// transaction. The projection update is unconditional: it does not look
// at the employee's current status, matching the observed product
// behavior even when the employee is resigned or terminated.
func (s *service) Append(
	ctx context.Context,
	employeeID int64,
	req AppendSalaryChangeRequest,
) (AppendSalaryChangeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	newSalary, previousSalary, err := validateAppendRequest(req)
	if err != nil {
		return AppendSalaryChangeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("append salary change begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AppendSalaryChangeResponse{}, err
	}
	defer tx.Rollback()

	empQtx := s.employeeRepo.WithTx(tx)

	// Locks the employee row until commit, serializing against every
	// other projection writer for this employee.
	if _, err := empQtx.FindByIDForUpdate(ctx, employeeID); err != nil {
		return AppendSalaryChangeResponse{}, mapRepositoryError(err)
	}

	change := &SalaryChange{
		EmployeeID:     employeeID,
		PreviousSalary: previousSalary,
		NewSalary:      newSalary,
		Reason:         req.Reason,
		ChangeType:     strings.TrimSpace(req.ChangeType),
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Insert(ctx, change); err != nil {
		return AppendSalaryChangeResponse{}, mapRepositoryError(err)
	}

	affected, err := empQtx.UpdateCurrentSalary(ctx, employeeID, &newSalary)
	if err != nil {
		return AppendSalaryChangeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.SalaryChangedEvent{
			EventType:  "salary_changed",
			EmployeeID: employeeID,
			ChangeID:   change.ID,
			NewSalary:  newSalary.StringFixed(2),
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return AppendSalaryChangeResponse{}, err
		}

		err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   fmt.Sprintf("%d", employeeID),
			EventType:     event.EventType,
			Topic:         events.SalaryChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return AppendSalaryChangeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AppendSalaryChangeResponse{}, err
	}

	s.logger.Info("salary change appended",
		zap.String("request_id", rid),
		zap.Int64("employee_id", employeeID),
		zap.Int64("change_id", change.ID),
		zap.String("new_salary", newSalary.StringFixed(2)),
		zap.Int64("employees_updated", affected),
	)

	return AppendSalaryChangeResponse{
		Message:          "Salary change recorded",
		InsertedID:       change.ID,
		EmployeesUpdated: affected,
	}, nil
}

func (s *service) History(ctx context.Context, employeeID int64) ([]SalaryChangeResponse, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, mapRepositoryError(err)
	}

	changes, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]SalaryChangeResponse, len(changes))
	for i, change := range changes {
		resp[i] = mapToResponse(change)
	}
	return resp, nil
}

func validateAppendRequest(req AppendSalaryChangeRequest) (decimal.Decimal, *decimal.Decimal, error) {
	if strings.TrimSpace(req.ChangeType) == "" {
		return decimal.Zero, nil, salarychangeerrors.ErrMissingChangeType
	}

	newSalary, err := decimal.NewFromString(strings.TrimSpace(req.NewSalary))
	if err != nil || newSalary.IsNegative() {
		return decimal.Zero, nil, salarychangeerrors.ErrInvalidSalaryAmount
	}

	var previousSalary *decimal.Decimal
	if req.PreviousSalary != nil && strings.TrimSpace(*req.PreviousSalary) != "" {
		prev, err := decimal.NewFromString(strings.TrimSpace(*req.PreviousSalary))
		if err != nil {
			return decimal.Zero, nil, salarychangeerrors.ErrInvalidPreviousSalary
		}
		previousSalary = &prev
	}

	return newSalary, previousSalary, nil
}

func mapToResponse(change SalaryChange) SalaryChangeResponse {
	resp := SalaryChangeResponse{
		ID:         change.ID,
		EmployeeID: change.EmployeeID,
		NewSalary:  change.NewSalary.StringFixed(2),
		Reason:     change.Reason,
		ChangeType: change.ChangeType,
		CreatedAt:  change.CreatedAt.UTC().Format(time.RFC3339),
	}

	if change.PreviousSalary != nil {
		v := change.PreviousSalary.StringFixed(2)
		resp.PreviousSalary = &v
	}

	return resp
}
