package payrollerrors

import (
	"net/http"

	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrEmptySettlementBatch = apperror.New(
		apperror.CodeInvalidInput,
		"payroll_ids must not be empty",
		http.StatusBadRequest,
	)
	ErrDuplicateSettlementIDs = apperror.New(
		apperror.CodeInvalidInput,
		"payroll_ids must not contain duplicates",
		http.StatusBadRequest,
	)
	ErrSettlementConflict = apperror.New(
		apperror.CodeConflict,
		"one or more payroll records are unknown, belong to another employee, or are already paid",
		http.StatusConflict,
	)
	ErrNegativeAdjustment = apperror.New(
		apperror.CodeInvalidInput,
		"bonus and penalty cannot be negative",
		http.StatusBadRequest,
	)
	ErrAdjustPaidPayroll = apperror.New(
		apperror.CodeInvalidState,
		"payroll record is already paid and cannot be adjusted",
		http.StatusBadRequest,
	)
)
