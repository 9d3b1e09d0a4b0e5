package schedule

import (
	"errors"

	scheduleerrors "churchops/internal/schedule/errors"
	"churchops/internal/shared/apperror"
	"churchops/internal/shared/pgerr"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduleerrors.ErrServiceNotFound
	}
	if pgerr.IsForeignKeyViolation(err) {
		return scheduleerrors.ErrServiceTypeNotFound
	}
	if pgerr.IsUnavailable(err) {
		return apperror.WithCause(apperror.ErrStoreUnavailable, err)
	}

	return err
}
