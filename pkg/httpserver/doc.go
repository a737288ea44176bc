// Package httpserver runs the demo site of piwiktrack serve: one http.Server
// with graceful shutdown on context cancellation, SIGINT or SIGTERM, lifecycle
// hooks and a health-check handler.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithOnStop(func() { _ = db.Close() }),
//	)
//	err := srv.Run(ctx, router)
package httpserver
