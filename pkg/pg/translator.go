package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/txsession/pkg/sqlsession"
)

// PostgreSQL SQLSTATE codes the translator understands.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Translator maps persistence-kind failures raised by pg sessions to the
// package's sentinel errors, keeping pgconn SQLSTATE knowledge out of
// application code. Failures it does not recognize are left untranslated.
type Translator struct{}

var _ sqlsession.ErrorTranslator = Translator{}

func (Translator) Translate(err error) error {
	pe, ok := sqlsession.AsPersistenceError(err)
	if !ok {
		return nil
	}
	cause := pe.Unwrap()

	if errors.Is(cause, pgx.ErrNoRows) {
		return errors.Join(ErrNotFound, cause)
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(ErrDuplicateKey, cause)
		case codeForeignKeyViolation:
			return errors.Join(ErrForeignKeyViolation, cause)
		case codeSerializationFailure:
			return errors.Join(ErrSerializationFailure, cause)
		case codeDeadlockDetected:
			return errors.Join(ErrDeadlockDetected, cause)
		}
	}
	return nil
}
