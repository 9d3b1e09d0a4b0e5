package report

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
