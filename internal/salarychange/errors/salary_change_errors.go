package salarychangeerrors

import (
	"net/http"

	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/apperror"
)

var (
	ErrInvalidSalaryAmount = apperror.New(
		apperror.CodeInvalidInput,
		"new_salary must be a non-negative amount",
		http.StatusBadRequest,
	)
	ErrInvalidPreviousSalary = apperror.New(
		apperror.CodeInvalidInput,
		"previous_salary must be a valid amount",
		http.StatusBadRequest,
	)
	ErrMissingChangeType = apperror.New(
		apperror.CodeInvalidInput,
		"change_type is required",
		http.StatusBadRequest,
	)
)
