// Package logger provides structured logging functionality for the application.
//
// It builds JSON loggers on the standard library log/slog package, carries
// loggers and per-request attributes through context.Context, and offers
// helpers for capturing log output in tests.
package logger
