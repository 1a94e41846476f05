// Package logger creates configured log/slog loggers for the module's
// components. The coordinator, manager and session factories all accept an
// injected *slog.Logger; this package is the single place their format,
// level and static attributes are decided.
//
//	log := logger.New(
//	    logger.WithTextFormatter(),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "billing")),
//	)
package logger
