// Package logger builds *slog.Logger values for the coerce service and CLI
// and keeps attribute names consistent across them.
//
// New applies functional options and returns a logger whose handler is a
// text or JSON slog handler, optionally wrapped so that ContextExtractor
// callbacks can add request-scoped attributes (such as a request id) to
// every record.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "coerce"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	log.InfoContext(ctx, "validated",
//	    logger.Schema(tree.Title()),
//	    logger.ErrorCount(0),
//	    logger.Duration(time.Since(start)),
//	)
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check.
package logger
