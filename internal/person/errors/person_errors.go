package personerrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrPersonNotFound = apperror.New(
		apperror.CodeNotFound,
		"Person not found",
		http.StatusNotFound,
	)
	ErrInvalidPersonID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid person ID",
		http.StatusBadRequest,
	)
	ErrInvalidCellID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid cell ID",
		http.StatusBadRequest,
	)
	ErrCellNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cell not found",
		http.StatusNotFound,
	)
	ErrPersonHasAttendance = apperror.New(
		apperror.CodeInvalidState,
		"Person has attendance records and cannot be deleted",
		http.StatusConflict,
	)
)
