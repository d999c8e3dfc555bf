// Package logger provides structured logging functionality for the application.
//
// It configures a JSON slog logger from server configuration and offers
// context helpers so request-scoped loggers (carrying trace and user IDs)
// can flow through service and store layers without explicit parameters.
package logger
