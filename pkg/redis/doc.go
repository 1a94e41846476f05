// Package redis provides the Redis backend for coordinated sessions, built
// on the go-redis client. It offers connection bootstrap with retry, a
// health-check probe, and a sqlsession.Factory whose sessions buffer
// commands in a transactional MULTI/EXEC pipeline.
//
// The backend exists primarily to demonstrate that the session coordinator
// in pkg/sqlsession is engine-agnostic; any resource that can express
// "queue work, flush at commit, discard at rollback" can participate in
// ambient transactions.
//
// # Usage
//
//	cfg, err := config.Load[redis.Config]()
//	if err != nil {
//	    panic(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer client.Close()
//
//	factory := redis.NewFactory(client)
//	kv := sqlsession.NewManagedSession(factory)
//
//	_, _ = kv.Exec(ctx, "SET", "greeting", "hello")
//	val, _ := kv.SelectOne(ctx, "GET", "greeting")
//
// Inside a txcontext.Manager transaction all Exec calls on the same factory
// queue into one pipeline that is executed atomically when the transaction
// commits and discarded when it rolls back. Reads always go directly to the
// server, so queued writes become visible only after commit.
package redis
