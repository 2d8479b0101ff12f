// Package logger configures the process-wide slog JSON logger from the server
// configuration and carries request-scoped loggers through context.Context.
package logger
