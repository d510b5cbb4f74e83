// Package server runs an HTTP handler with graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Run(ctx, router)
//
// Run blocks until the context is canceled, then stops accepting connections
// and waits up to the shutdown timeout for in-flight requests. Request
// contexts are detached from the run context so deferred session commits
// still complete during the drain.
//
// Config is read from HTTP_ADDR, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT,
// HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT, HTTP_MAX_HEADER_BYTES and, for
// HTTPS, HTTP_TLS_CERT_FILE and HTTP_TLS_KEY_FILE.
package server
