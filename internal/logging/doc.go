// Package logging provides structured logging for pulse contexts and hosts.
//
// This package wraps Go's log/slog to provide JSON-formatted logs with
// persistent attributes for the endpoint, category and action that produced
// a line.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/pulse", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithEndpoint("background").WithCategory("inspector").
//	    Debug("dispatched", "action", "ping")
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"dispatched","endpoint":"background","category":"inspector","action":"ping"}
//
// # Rotation
//
// pulse.log rolls over by size. [NewRotatingLogger] takes a [RotationConfig];
// rotated files are kept as pulse.log.1 (newest) through pulse.log.N and are
// optionally gzipped.
//
//	logger, err := logging.NewRotatingLogger(dir, "INFO", logging.RotationConfig{
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	    Compress:   true,
//	})
//
// # Testing
//
// Use [NopLogger] to discard all output, or [NewWriterLogger] with a
// bytes.Buffer to assert on emitted lines.
//
// # Log Levels
//
//   - [LevelDebug]: per-envelope dispatch detail
//   - [LevelInfo]: lifecycle (contexts registered, hubs closed)
//   - [LevelWarn]: recoverable host conditions
//   - [LevelError]: handler failures surfaced through the host
//
// Envelopes that match no category or action are never logged.
package logging
