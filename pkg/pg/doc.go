// Package pg provides the PostgreSQL backend for coordinated sessions,
// built on the pgx/v5 driver. It offers connection bootstrap with retry,
// a health-check probe, a sqlsession.Factory implementation over a
// pgxpool.Pool, and an error translator mapping SQLSTATE codes to sentinel
// errors.
//
// # Architecture
//
//   - Config – a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits and retry behavior.
//
//   - Connect – opens a *pgxpool.Pool based on Config, retrying with
//     growing back-off until the database becomes available.
//
//   - Factory – opens sqlsession.Session values over the pool. Each
//     session owns one pooled connection and begins its transaction lazily
//     on the first statement. ModeBatch queues mutating statements into a
//     pgx.Batch that is flushed on commit (or before any read), matching
//     the coordinator's flush-at-BeforeCommit contract.
//
//   - Translator – a sqlsession.ErrorTranslator turning persistence-kind
//     failures into [ErrNotFound], [ErrDuplicateKey],
//     [ErrForeignKeyViolation], [ErrSerializationFailure] and
//     [ErrDeadlockDetected].
//
// # Usage
//
//	cfg, err := config.Load[pg.Config]()
//	if err != nil {
//	    panic(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	factory := pg.NewFactory(pool)
//	db := sqlsession.NewManagedSession(factory,
//	    sqlsession.WithErrorTranslator(pg.Translator{}),
//	)
//
// The factory is transaction-aware: sessions opened inside a
// txcontext.Manager transaction are bound to it and shared by every call
// site until completion.
package pg
