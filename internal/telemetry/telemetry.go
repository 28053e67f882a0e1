// Package telemetry reports background failures to Sentry. Without a DSN
// every call is a no-op apart from logging.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const flushTimeout = 2 * time.Second

// Init configures the global Sentry client and returns a flush func for shutdown.
func Init(dsn, environment string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() { sentry.Flush(flushTimeout) }, nil
}

// Capture logs err and sends it to Sentry tagged with kind and extra context.
func Capture(kind string, err error, extra map[string]interface{}) {
	fields := make([]zap.Field, 0, len(extra)+2)
	fields = append(fields, zap.String("kind", kind), zap.Error(err))
	for k, v := range extra {
		fields = append(fields, zap.Any(k, v))
	}
	zap.L().Error("background operation failed", fields...)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", kind)
		for k, v := range extra {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Breadcrumb records a non-error event on the current Sentry scope.
func Breadcrumb(category, message string, data map[string]interface{}) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "info",
		Category:  category,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}
