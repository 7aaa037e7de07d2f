// Package logging provides structured logging with contact redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Redaction of contact emails in log attributes
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "text",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("certificates planned",
//	    "email", "ops@example.com", // logged as o***@example.com
//	    "domains", 2,
//	)
//
// New returns a plain *slog.Logger, so any package accepting one logs
// through the redacting handler.
//
// # Redaction
//
// Email addresses in string attributes are masked down to their first
// character and domain. Attributes whose key names a secret (token,
// password, secret) are masked entirely.
package logging
