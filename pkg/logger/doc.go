// Package logger provides a context-aware wrapper around Go's slog package
// with functional options, attribute helpers and injection of values stored in
// context.Context.
//
// New returns a *slog.Logger configured by Option functions. They select the
// output format (text or json), the minimum level and ContextExtractor
// callbacks that pull attributes from the context on every
// Handle call.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler and wraps it with
// LogHandlerDecorator, which runs the registered extractors before delegating.
//
// Helpers in attr.go (SiteID, VisitorID, Kind, StatusCode, URL, QueueSize,
// Cookie, Error) keep attribute names consistent between the tracker, its
// transport hooks and the command line sender.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextValue("request_id", middleware.RequestIDKey),
//	).With(logger.Component("piwik.tracker"))
//	log.InfoContext(ctx, "tracking request sent",
//	    logger.SiteID(1),
//	    logger.StatusCode(res.StatusCode),
//	    logger.Duration(res.Duration),
//	)
//
// # Configuration
//
// Config carries LOG_LEVEL, LOG_FORMAT, APP_ENV and APP_NAME and is applied
// with WithConfig. APP_ENV picks a preset (development: text at debug;
// staging and production: JSON at info) that LOG_LEVEL and LOG_FORMAT then
// override. WithLevel and WithFormat set the same knobs directly.
//
// Error and Errors produce attributes only for non-nil errors, so
//
//	log.Info("flush finished", logger.Error(err))
//
// needs no nil check.
package logger
