// Package testutil holds small helpers shared across package tests.
package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that drops everything, keeping test output
// free of the structured log stream the components emit.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
