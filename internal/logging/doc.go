// Package logging provides structured logging utilities for the voicecal
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Configure the default logger once at startup:
//
//	logging.Setup()
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.create")
//	logger.Info("event created", logging.Status(logging.StatusSuccess))
//
// Attribute helpers keep key names consistent:
//
//	logger.Info("tool dispatched",
//	    logging.Tool("create_event"),
//	    logging.Duration(elapsed))
package logging
