package importer

import (
	"errors"

	"churchops/internal/shared/apperror"
	"churchops/internal/shared/pgerr"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if pgerr.IsUnavailable(err) {
		return apperror.WithCause(apperror.ErrStoreUnavailable, err)
	}
	return err
}

// isStoreFailure reports errors after which no later row can succeed.
func isStoreFailure(err error) bool {
	return errors.Is(err, apperror.ErrStoreUnavailable) || pgerr.IsUnavailable(err)
}

// rowMessage is the text recorded for a failed row.
func rowMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
