package employment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CodifyCanvas/Foodya-sub001/internal/employee"
	employmenterrors "github.com/CodifyCanvas/Foodya-sub001/internal/employment/errors"
	"github.com/CodifyCanvas/Foodya-sub001/internal/events"
	"github.com/CodifyCanvas/Foodya-sub001/internal/messaging/kafka"
	"github.com/CodifyCanvas/Foodya-sub001/internal/salarychange"
	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employment_service.go -destination=mock/employment_service_mock.go -package=mock
type Service interface {
	Append(ctx context.Context, employeeID int64, req AppendEmploymentRecordRequest) (AppendEmploymentRecordResponse, error)
	History(ctx context.Context, employeeID int64) ([]EmploymentRecordResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	salaryRepo   salarychange.Repository
	outbox       kafka.OutboxRepository
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	salaryRepo salarychange.Repository,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employeeRepo, salaryRepo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	salaryRepo salarychange.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employment.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		salaryRepo:   salaryRepo,
		outbox:       outboxRepo,
		logger:       l,
	}
}

// Append inserts the status record and rewrites the salary projection
// in one transaction:
//   - resigned/terminated clear current_salary
//   - active/rejoined restore it from the latest salary change, or
//     leave it NULL when the employee never had one
func (s *service) Append(
	ctx context.Context,
	employeeID int64,
	req AppendEmploymentRecordRequest,
) (AppendEmploymentRecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	record, err := validateAppendRequest(employeeID, req)
	if err != nil {
		return AppendEmploymentRecordResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("append employment record begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return AppendEmploymentRecordResponse{}, err
	}
	defer tx.Rollback()

	empQtx := s.employeeRepo.WithTx(tx)

	// Row lock on the employee until commit. Without it, the "read
	// latest salary change, then write projection" sequence below could
	// interleave with a concurrent salary change for the same employee.
	if _, err := empQtx.FindByIDForUpdate(ctx, employeeID); err != nil {
		return AppendEmploymentRecordResponse{}, mapRepositoryError(err)
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Insert(ctx, record); err != nil {
		return AppendEmploymentRecordResponse{}, mapRepositoryError(err)
	}

	var projected *decimal.Decimal
	if leavesEmployed(record.Status) {
		latest, err := s.salaryRepo.WithTx(tx).FindLatestByEmployee(ctx, employeeID)
		switch {
		case err == nil:
			projected = &latest.NewSalary
		case errors.Is(err, sql.ErrNoRows):
			// No salary change ever recorded; nothing to project from.
			projected = nil
		default:
			return AppendEmploymentRecordResponse{}, mapRepositoryError(err)
		}
	}

	if _, err := empQtx.UpdateCurrentSalary(ctx, employeeID, projected); err != nil {
		return AppendEmploymentRecordResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmploymentStatusChangedEvent{
			EventType:  "employment_status_changed",
			EmployeeID: employeeID,
			RecordID:   record.ID,
			Status:     record.Status,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return AppendEmploymentRecordResponse{}, err
		}

		err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   fmt.Sprintf("%d", employeeID),
			EventType:     event.EventType,
			Topic:         events.EmploymentStatusChangedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return AppendEmploymentRecordResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AppendEmploymentRecordResponse{}, err
	}

	s.logger.Info("employment record appended",
		zap.String("request_id", rid),
		zap.Int64("employee_id", employeeID),
		zap.Int64("record_id", record.ID),
		zap.String("status", record.Status),
	)

	return AppendEmploymentRecordResponse{
		Message:    "Employment record created",
		InsertedID: record.ID,
	}, nil
}

func (s *service) History(ctx context.Context, employeeID int64) ([]EmploymentRecordResponse, error) {
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, mapRepositoryError(err)
	}

	records, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]EmploymentRecordResponse, len(records))
	for i, record := range records {
		resp[i] = mapToResponse(record)
	}
	return resp, nil
}

func validateAppendRequest(employeeID int64, req AppendEmploymentRecordRequest) (*EmploymentRecord, error) {
	designation := strings.TrimSpace(req.Designation)
	if designation == "" {
		return nil, employmenterrors.ErrMissingDesignation
	}

	shift := strings.TrimSpace(req.Shift)
	if shift == "" {
		return nil, employmenterrors.ErrMissingShift
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !isKnownStatus(status) {
		return nil, employmenterrors.ErrUnknownStatus
	}

	changeType := strings.TrimSpace(req.ChangeType)
	if changeType == "" {
		return nil, employmenterrors.ErrMissingChangeType
	}

	joinedAt, err := parseDate(req.JoinedAt)
	if err != nil {
		return nil, employmenterrors.ErrInvalidJoinedAt
	}

	var resignedAt *time.Time
	if req.ResignedAt != nil && strings.TrimSpace(*req.ResignedAt) != "" {
		t, err := parseDate(*req.ResignedAt)
		if err != nil {
			return nil, employmenterrors.ErrInvalidResignedAt
		}
		resignedAt = &t
	}

	return &EmploymentRecord{
		EmployeeID:  employeeID,
		Designation: designation,
		Shift:       shift,
		Status:      status,
		JoinedAt:    joinedAt,
		ResignedAt:  resignedAt,
		ChangeType:  changeType,
	}, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func mapToResponse(record EmploymentRecord) EmploymentRecordResponse {
	resp := EmploymentRecordResponse{
		ID:          record.ID,
		EmployeeID:  record.EmployeeID,
		Designation: record.Designation,
		Shift:       record.Shift,
		Status:      record.Status,
		JoinedAt:    record.JoinedAt.UTC().Format(time.RFC3339),
		ChangeType:  record.ChangeType,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
	}

	if record.ResignedAt != nil {
		v := record.ResignedAt.UTC().Format(time.RFC3339)
		resp.ResignedAt = &v
	}

	return resp
}
