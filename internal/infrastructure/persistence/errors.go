package persistence

import (
	"errors"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto domain errors. notFound is returned
// for a missing record. Errors that already are domain errors pass through;
// anything else becomes a storage error.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return shared.NewStorageError(err)
}

// isForeignKeyViolation reports whether err came from a failed FK check
func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// isPostgres reports whether db talks to PostgreSQL
func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
