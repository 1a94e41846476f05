package txcontext

import "errors"

var (
	// ErrAlreadyBound indicates a resource is already bound for the key in
	// this execution context. This is a programming-contract violation.
	ErrAlreadyBound = errors.New("resource already bound for key")

	// ErrNotBound indicates no resource is bound for the key.
	ErrNotBound = errors.New("no resource bound for key")

	// ErrNoTransaction indicates no transaction synchronization is active
	// in the current context.
	ErrNoTransaction = errors.New("no active transaction synchronization")

	// ErrNilSynchronization indicates a nil synchronization was registered.
	ErrNilSynchronization = errors.New("synchronization must not be nil")
)
