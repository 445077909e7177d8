// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common application errors.
var (
	// Model runtime errors.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrSchemaMismatch   = errors.New("feature schema mismatch")

	// Registry errors.
	ErrNoCurrentModel  = errors.New("no current model")
	ErrArtifactCorrupt = errors.New("artifact corrupt")
	ErrUnknownVersion  = errors.New("unknown model version")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// WarnOncer logs a warning at most once per distinct key. It exists for
// per-request failure modes (schema mismatch, unmapped category) that would
// otherwise storm the logs.
type WarnOncer struct {
	seen sync.Map
}

// Warn logs msg with fields the first time key is seen and is a no-op after.
func (w *WarnOncer) Warn(key, msg string, fields Fields) {
	if _, loaded := w.seen.LoadOrStore(key, struct{}{}); loaded {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	slog.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}
