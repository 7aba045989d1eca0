// Package logger provides structured logging functionality for the
// application. It configures a JSON slog logger from server configuration and
// offers helpers for carrying a request-scoped logger through a
// context.Context so that handlers, services, and stores share correlation
// attributes such as the trace ID.
package logger
