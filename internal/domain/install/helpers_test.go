package install

import (
	"context"

	"github.com/felixgeelhaar/stagehand/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (l nopLogger) With(...ports.Field) ports.Logger            { return l }
func (nopLogger) SetLevel(ports.Level)                          {}
