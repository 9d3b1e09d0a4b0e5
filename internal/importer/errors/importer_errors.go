package importererrors

import (
	"churchops/internal/shared/apperror"
	"net/http"
)

var (
	ErrNoFile = apperror.New(
		apperror.CodeInvalidInput,
		"No file provided",
		http.StatusBadRequest,
	)
	ErrUnsupportedFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported file format, upload a .csv or .xlsx file",
		http.StatusBadRequest,
	)
	ErrUnreadableFile = apperror.New(
		apperror.CodeInvalidInput,
		"The uploaded file could not be read",
		http.StatusBadRequest,
	)
	ErrMissingIdentifierColumn = apperror.New(
		apperror.CodeInvalidInput,
		"File must contain at least one identifier column (person_id, first_name+last_name, email, or phone)",
		http.StatusBadRequest,
	)
	ErrEmptyImport = apperror.New(
		apperror.CodeInvalidInput,
		"The import contains no rows",
		http.StatusBadRequest,
	)
	ErrTooManyRows = apperror.New(
		apperror.CodeTooLarge,
		"The import contains more rows than allowed",
		http.StatusRequestEntityTooLarge,
	)
	ErrInvalidMatchType = apperror.New(
		apperror.CodeInvalidInput,
		"Match type must be exact or fuzzy",
		http.StatusBadRequest,
	)
	ErrNoIdentifier = apperror.New(
		apperror.CodeInvalidInput,
		"Row has no identifier (person_id, first_name+last_name, email, or phone)",
		http.StatusBadRequest,
	)
	ErrInvalidPersonID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid person_id",
		http.StatusBadRequest,
	)
	ErrCellRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A cell is required to create a person",
		http.StatusBadRequest,
	)
	ErrCellNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"cell_name is required when hierarchy columns are given",
		http.StatusBadRequest,
	)
)
