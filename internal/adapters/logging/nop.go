package logging

import (
	"context"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

// NopLogger discards all log messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

// Debug implements ports.Logger.
func (*NopLogger) Debug(context.Context, string, ...ports.Field) {}

// Info implements ports.Logger.
func (*NopLogger) Info(context.Context, string, ...ports.Field) {}

// Warn implements ports.Logger.
func (*NopLogger) Warn(context.Context, string, ...ports.Field) {}

// Error implements ports.Logger.
func (*NopLogger) Error(context.Context, string, ...ports.Field) {}

// With implements ports.Logger.
func (l *NopLogger) With(...ports.Field) ports.Logger { return l }

// SetLevel implements ports.Logger.
func (*NopLogger) SetLevel(ports.Level) {}

// Ensure NopLogger implements Logger.
var _ ports.Logger = (*NopLogger)(nil)
