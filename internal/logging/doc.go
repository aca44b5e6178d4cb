// Package logging provides structured JSON logging for duechat.
//
// The TUI owns the terminal, so the CLI writes logs to a file under the
// configured log directory:
//
//	logger, err := logging.NewLogger("/home/me/.config/duechat/logs", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	sessionLogger := logger.WithSession("6f1c...")
//	sessionLogger.Info("chat round trip", "latency_ms", 812)
//
// Each line is a JSON object with time, level, msg and the accumulated
// attributes (session_id, stage, request_id, ...).
package logging
