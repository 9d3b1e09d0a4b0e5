package hierarchy

import (
	"errors"

	hierarchyerrors "churchops/internal/hierarchy/errors"
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
		return hierarchyerrors.ErrNodeNotFound
	}
	if pgerr.IsUniqueViolation(err) {
		return hierarchyerrors.ErrNodeAlreadyExists
	}
	if pgerr.IsForeignKeyViolation(err) {
		return hierarchyerrors.ErrParentNotFound
	}
	if pgerr.IsUnavailable(err) {
		return apperror.WithCause(apperror.ErrStoreUnavailable, err)
	}

	return err
}
