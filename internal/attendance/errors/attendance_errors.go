package attendanceerrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of present, absent, watched_recording, not-marked",
		http.StatusBadRequest,
	)
	ErrInvalidServiceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid service ID",
		http.StatusBadRequest,
	)
	ErrInvalidPersonID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid person ID",
		http.StatusBadRequest,
	)
	ErrServiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Service not found",
		http.StatusNotFound,
	)
	ErrPersonNotFound = apperror.New(
		apperror.CodeNotFound,
		"Person not found",
		http.StatusNotFound,
	)
	ErrEmptyBatch = apperror.New(
		apperror.CodeInvalidInput,
		"At least one mark is required",
		http.StatusBadRequest,
	)
)
