// Package logger provides structured logging helpers built on log/slog.
//
// New builds a text or JSON logger; the attribute helpers give consistent
// keys for session-related records and return an empty slog.Attr for empty
// input, so they can be passed unconditionally:
//
//	log := logger.New(logger.WithLevelString("debug"), logger.WithJSONFormatter())
//	log.Info("session committed",
//		logger.SessionID(sess.ID()),
//		logger.Store("redis"),
//		logger.Error(err),
//	)
package logger
