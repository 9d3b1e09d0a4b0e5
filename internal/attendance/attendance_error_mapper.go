package attendance

import (
	"errors"

	attendanceerrors "churchops/internal/attendance/errors"
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
		return attendanceerrors.ErrServiceNotFound
	}
	if pgerr.IsForeignKeyViolation(err) {
		return attendanceerrors.ErrPersonNotFound
	}
	if pgerr.IsCheckViolation(err) {
		return attendanceerrors.ErrInvalidStatus
	}
	if pgerr.IsUnavailable(err) {
		return apperror.WithCause(apperror.ErrStoreUnavailable, err)
	}

	return err
}
