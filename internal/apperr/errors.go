// Package apperr defines the error kinds shared by every layer below the HTTP handlers.
//
// Concrete errors wrap one of the kinds with %w so callers can classify them with
// errors.Is without knowing the specific failure.
package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds.
var (
	// ErrValidation marks user-correctable input errors. Nothing was written.
	ErrValidation = errors.New("validation failed")

	// ErrPermission marks access denials (wrong role or not the owner).
	ErrPermission = errors.New("permission denied")

	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict marks integrity conflicts such as unique violations.
	ErrConflict = errors.New("resource conflict")

	// ErrPrecondition marks programmer errors that upstream checks should have prevented.
	ErrPrecondition = errors.New("precondition violated")
)

// PostgreSQL SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// New builds an error of the given kind with a descriptive message.
func New(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// FromDB translates driver errors into error kinds.
// pgx.ErrNoRows becomes ErrNotFound, unique violations become ErrConflict and
// foreign key violations (a reference to a missing row) become ErrValidation.
// Other errors are returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", ErrValidation, pgErr.ConstraintName)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is a unique violation on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}
