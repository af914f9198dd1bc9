// Package health provides liveness, readiness and version endpoints for the
// export server.
//
// Liveness only reports that the process is up. Readiness runs the registered
// component checks concurrently, each bounded by the checker timeout, and
// answers 503 when any of them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//	    _, err := recordStore.ContentTypes(ctx)
//	    return err
//	})
//
//	mux.Handle("GET /health", checker.LivenessHandler())
//	mux.Handle("GET /ready", checker.ReadinessHandler())
//	mux.Handle("GET /version", health.VersionHandler(version, commit, buildDate))
package health
