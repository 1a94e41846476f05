// Package txcontext provides execution-context-scoped transaction state:
// a resource registry, transaction scopes with ordered synchronization
// callbacks, and a minimal manager that drives them.
//
// The package replaces the implicit thread-local bookkeeping found in
// framework-managed transaction stacks with an explicit context.Context
// model. Each logical task carries its own Registry, so resources bound
// during a transaction are invisible to concurrent tasks without any
// locking of the resources themselves.
//
// # Usage
//
//	mgr := txcontext.NewManager()
//
//	err := mgr.WithinTransaction(ctx, func(ctx context.Context) error {
//	    // Everything called from here shares the ambient transaction.
//	    // Components register txcontext.Synchronization callbacks to be
//	    // notified of commit and completion.
//	    return doWork(ctx)
//	})
//
// Nested transactions that must not observe the outer transaction's
// resources use WithinNewTransaction, which suspends the outer scope's
// synchronizations for the duration of the inner transaction.
//
// # Callback ordering
//
// For a given transaction, BeforeCommit always precedes BeforeCompletion,
// which always precedes AfterCompletion. Suspend/Resume pairs may occur any
// number of times before completion. AfterCompletion must be idempotent and
// may arrive from a different context than the one that bound the resource.
package txcontext
