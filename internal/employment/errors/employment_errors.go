package employmenterrors

import (
	"net/http"

	"github.com/CodifyCanvas/Foodya-sub001/internal/shared/apperror"
)

var (
	ErrMissingDesignation = apperror.New(
		apperror.CodeInvalidInput,
		"designation is required",
		http.StatusBadRequest,
	)
	ErrMissingShift = apperror.New(
		apperror.CodeInvalidInput,
		"shift is required",
		http.StatusBadRequest,
	)
	ErrUnknownStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of active, resigned, terminated, rejoined",
		http.StatusBadRequest,
	)
	ErrInvalidJoinedAt = apperror.New(
		apperror.CodeInvalidInput,
		"joined_at is not a valid date",
		http.StatusBadRequest,
	)
	ErrInvalidResignedAt = apperror.New(
		apperror.CodeInvalidInput,
		"resigned_at is not a valid date",
		http.StatusBadRequest,
	)
	ErrMissingChangeType = apperror.New(
		apperror.CodeInvalidInput,
		"change_type is required",
		http.StatusBadRequest,
	)
)
