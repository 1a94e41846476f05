package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenConnection = errors.New("failed to open db connection")
	ErrFailedToParseConfig    = errors.New("failed to parse db config")
	ErrHealthcheckFailed      = errors.New("healthcheck failed, connection is not available")
	ErrFailedToOpenSession    = errors.New("failed to open session")
	ErrSessionClosed          = errors.New("session is closed")
	ErrTooManyRows            = errors.New("query returned more than one row")

	// Translated failure kinds produced by Translator.
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
	ErrForeignKeyViolation  = errors.New("foreign key violation")
	ErrSerializationFailure = errors.New("serialization failure, retry the transaction")
	ErrDeadlockDetected     = errors.New("deadlock detected")
)

// IsNotFoundError detects pgx.ErrNoRows and translated not-found failures.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505),
// translated or raw.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsForeignKeyViolationError detects referential integrity violations
// (SQLSTATE 23503), translated or raw.
func IsForeignKeyViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrForeignKeyViolation) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}
