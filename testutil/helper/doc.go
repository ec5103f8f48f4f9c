// Package helper provides test doubles and fixtures shared by the package test suites:
// a slog handler that captures log records, a metrics collector spy, and document fixtures.
package helper
