package sqlsession

import "context"

// ExecutorMode selects the statement execution strategy of a session.
// An ambient transaction cannot change its executor mode mid-flight.
type ExecutorMode uint8

const (
	// ModeDefault defers to the factory's default executor mode.
	ModeDefault ExecutorMode = iota
	// ModeSimple executes every statement immediately.
	ModeSimple
	// ModeBatch queues mutating statements and flushes them on commit.
	ModeBatch
)

func (m ExecutorMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeBatch:
		return "batch"
	default:
		return "default"
	}
}

// Session is a stateful unit-of-work handle against a persistence engine.
// A session is owned exclusively by the coordinator's bookkeeping and must
// never be shared across execution contexts.
//
// Commit and Rollback take a force flag: some engines require an explicit
// transaction boundary even when no mutation occurred before a connection
// can be returned to its pool.
type Session interface {
	// SelectOne returns at most one row. It returns nil when no row
	// matches and an error when more than one does.
	SelectOne(ctx context.Context, query string, args ...any) (any, error)
	// SelectList returns all matching rows.
	SelectList(ctx context.Context, query string, args ...any) ([]any, error)
	// Exec runs a mutating statement and returns the number of affected
	// rows. In batch mode the statement may only be queued, in which case
	// the count is reported as zero.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)

	Commit(ctx context.Context, force bool) error
	Rollback(ctx context.Context, force bool) error
	Close() error

	// Connection exposes the engine-specific connection handle.
	Connection() any
}

// Factory opens sessions against one underlying resource. The factory value
// itself is the resource identity the coordinator keys its bookkeeping by,
// so a single factory instance must be shared by all cooperating call sites.
type Factory interface {
	OpenSession(ctx context.Context, mode ExecutorMode) (Session, error)
	DefaultExecutorMode() ExecutorMode
}

// TransactionAware marks factories whose sessions can safely participate in
// an ambient transaction. Factories that do not implement it (or report
// false) are left unsynchronized.
type TransactionAware interface {
	TransactionAware() bool
}

// DataSourceKeyer exposes the registry key under which the factory's
// underlying data source is bound when it is managed externally. The
// coordinator uses it to distinguish "resource is simply not transactional"
// from "resource is transactional but the factory cannot cooperate".
type DataSourceKeyer interface {
	DataSourceKey() any
}
