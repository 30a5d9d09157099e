// Package httpserver runs the validation service's HTTP listener with
// graceful shutdown and health probes.
//
// Run blocks until its context is cancelled or the process receives SIGINT
// or SIGTERM, then shuts the server down within the configured timeout.
// Config carries env tags so the serve command can load it with the config
// package.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
//
// HealthCheckHandler backs /healthz (no checks) and /readyz (with checks).
//
// Listen errors wrap ErrStart and shutdown errors wrap ErrShutdown.
package httpserver
