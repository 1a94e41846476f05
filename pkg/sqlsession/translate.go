package sqlsession

import "errors"

// PersistenceError marks a failure raised by the persistence engine itself,
// as opposed to coordination errors or caller mistakes. Session factories
// wrap driver errors in it so the facade and the transaction
// synchronization know which failures are eligible for translation.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a persistence-kind failure. A nil err
// returns nil, and an error that already carries the persistence kind is
// returned unchanged.
func NewPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Err: err}
}

// AsPersistenceError reports whether err is a persistence-kind failure.
func AsPersistenceError(err error) (*PersistenceError, bool) {
	var pe *PersistenceError
	ok := errors.As(err, &pe)
	return pe, ok
}

// ErrorTranslator turns persistence-engine failures into errors meaningful
// to the application. Translate returns nil when it cannot translate the
// error, in which case the original error propagates unchanged.
type ErrorTranslator interface {
	Translate(err error) error
}

// TranslatorFunc adapts a function to the ErrorTranslator interface.
type TranslatorFunc func(err error) error

func (f TranslatorFunc) Translate(err error) error {
	return f(err)
}
