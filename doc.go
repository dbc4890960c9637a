// Package hitcount provides a small HTTP visit-counter service backed by a
// pluggable persistent counter store. It generalizes the classic
// "web app + datastore" compose tutorial into a testable component with
// explicit startup ordering against the datastore dependency.
//
// # Key Concepts
//
//   - [store.Store] is the counter backend. An in-memory store is used by
//     default; Redis and SQLite backends are available for real deployments.
//   - [Service] exposes the HTTP surface: a fixed greeting on "/" and an
//     atomically incremented visit counter on "/count".
//   - [Gate] blocks readiness until the datastore accepts connections,
//     retrying with exponential backoff. Container orchestration only orders
//     process launch, not logical readiness, so the service has to wait on
//     its own.
//   - [VersionSource] and [VersionService] implement the relational variant:
//     a read-only SELECT VERSION() round trip that proves connectivity.
//
// # Quick Start
//
//	client := redis.NewClient(&redis.Options{Addr: "redis:6379"})
//	svc := hitcount.NewService(redisstore.NewRedisStore(client))
//
//	if err := svc.WaitReady(ctx, hitcount.Gate{MaxAttempts: 10}); err != nil {
//		log.Fatal().Err(err).Msg("datastore never became reachable")
//	}
//	http.ListenAndServe(":5001", svc.Handler())
//
// See the [Service] documentation for the full API.
package hitcount
