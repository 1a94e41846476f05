// Package sqlsession coordinates the lifecycle of persistence sessions
// across ambient transaction boundaries: call sites cooperating inside one
// transaction observe exactly one shared session, while call sites outside
// any transaction each get an isolated session that is opened, committed
// and closed per call.
//
// The package builds on pkg/txcontext for execution-context-scoped state
// and is engine-agnostic: any resource exposing the Session and Factory
// contracts can participate (see pkg/pg and pkg/redis for the bundled
// PostgreSQL and Redis factories).
//
// # Building blocks
//
//   - Coordinator — the acquire/release protocol implementing the sharing
//     policy, exposed directly for components that want manual control.
//   - ManagedSession — a session-shaped facade safe to share between call
//     sites; every operation re-resolves the active session, decides
//     whether to self-commit, and always releases.
//   - ErrorTranslator / PersistenceError — the seam through which
//     engine-specific failures become application errors.
//
// # Usage
//
//	pool, _ := pg.Connect(ctx, cfg)
//	factory := pg.NewFactory(pool)
//	db := sqlsession.NewManagedSession(factory,
//	    sqlsession.WithErrorTranslator(pg.Translator{}),
//	)
//
//	mgr := txcontext.NewManager()
//	err := mgr.WithinTransaction(ctx, func(ctx context.Context) error {
//	    if _, err := db.Exec(ctx, `INSERT INTO users (name) VALUES ($1)`, "ann"); err != nil {
//	        return err
//	    }
//	    // Same physical session as the insert above.
//	    _, err := db.SelectOne(ctx, `SELECT id FROM users WHERE name = $1`, "ann")
//	    return err
//	})
//
// Outside WithinTransaction every facade call runs on its own short-lived
// session with an immediate forced commit, mirroring autocommit behavior.
//
// # Lifecycle guarantees
//
// A session bound to an ambient transaction is closed exactly once, by the
// transaction completion callbacks, never by Release — even when its
// reference count reaches zero mid-transaction, since it may be re-acquired
// before completion. Suspending a transaction detaches the binding so a
// nested transaction opens its own session; resuming restores it.
package sqlsession
