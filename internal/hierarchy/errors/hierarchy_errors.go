package hierarchyerrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrNodeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization unit not found",
		http.StatusNotFound,
	)
	ErrParentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Parent organization unit not found",
		http.StatusNotFound,
	)
	ErrParentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Parent ID is required for this level",
		http.StatusBadRequest,
	)
	ErrNodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An organization unit with the same name already exists under this parent",
		http.StatusConflict,
	)
	ErrInvalidLevel = apperror.New(
		apperror.CodeInvalidInput,
		"Level must be one of region, direction, department, team, cell",
		http.StatusBadRequest,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization unit ID",
		http.StatusBadRequest,
	)
	ErrCellNotResolved = apperror.New(
		apperror.CodeNotFound,
		"No cell matches the given names",
		http.StatusNotFound,
	)
)
