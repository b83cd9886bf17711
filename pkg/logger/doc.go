// Package logger builds *slog.Logger instances for the drive services and
// keeps attribute naming consistent across packages.
//
// New creates a logger from functional options (format, level, output,
// static attributes) and wraps the handler with a decorator that pulls
// request-scoped values, such as the request id, out of context.Context on
// every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "drive"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "otp issued",
//	    logger.AccountID(accountID),
//	    logger.Component("users"),
//	)
package logger
