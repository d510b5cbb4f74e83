// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Dependency checks follow the func(context.Context) error signature, which
// redis.Healthcheck and pg.Healthcheck return:
//
//	r.Get("/livez", health.Liveness)
//	r.Get("/healthz", health.Readiness(log, pg.Healthcheck(pool)))
package health
