package reporterrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidReportType = apperror.New(
		apperror.CodeInvalidInput,
		"Report type must be one of date, department, team",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Days must be between 1 and 3660",
		http.StatusBadRequest,
	)
	ErrInvalidServiceTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid service type ID",
		http.StatusBadRequest,
	)
	ErrInvalidFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Export format must be csv or xlsx",
		http.StatusBadRequest,
	)
)
