package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"infra-object-service/internal/apperrors"
)

// translate maps GORM errors onto apperrors kinds.
func translate(op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(op, format, args...)
	}
	return apperrors.Internal(op, errors.Wrap(err, "database"), "storage failure")
}
