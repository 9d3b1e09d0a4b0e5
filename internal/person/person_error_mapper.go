package person

import (
	"errors"

	personerrors "churchops/internal/person/errors"
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
		return personerrors.ErrPersonNotFound
	}
	if pgerr.IsForeignKeyViolation(err) {
		return personerrors.ErrCellNotFound
	}
	if pgerr.IsUnavailable(err) {
		return apperror.WithCause(apperror.ErrStoreUnavailable, err)
	}

	return err
}
