package scheduleerrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrServiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Service not found",
		http.StatusNotFound,
	)
	ErrServiceTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Service type not found",
		http.StatusNotFound,
	)
	ErrInvalidServiceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid service ID",
		http.StatusBadRequest,
	)
	ErrInvalidServiceTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid service type ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
)
