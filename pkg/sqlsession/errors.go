package sqlsession

import "errors"

var (
	// ErrNilFactory indicates a nil factory was passed to the coordinator.
	ErrNilFactory = errors.New("session factory must not be nil")

	// ErrNilSession indicates a nil session was passed to the coordinator.
	ErrNilSession = errors.New("session must not be nil")

	// ErrExecutorModeMismatch indicates an acquire requested a different
	// executor mode than the session already bound to the ambient
	// transaction. The execution strategy cannot change mid-transaction.
	ErrExecutorModeMismatch = errors.New("cannot change the executor mode inside an active transaction")

	// ErrUnsupportedTransactionBinding indicates the factory's underlying
	// resource is managed transactionally but the factory itself cannot
	// cooperate with ambient transaction synchronization.
	ErrUnsupportedTransactionBinding = errors.New("factory cannot participate in ambient transaction synchronization")

	// ErrManualTransactionControl indicates an explicit commit, rollback or
	// close was invoked on a managed session facade. The facade owns those
	// decisions itself.
	ErrManualTransactionControl = errors.New("manual transaction control is not allowed on a managed session")
)
