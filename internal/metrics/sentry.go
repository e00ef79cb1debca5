package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	// Create a span for API request tracking using the request context
	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordCompile records a compilation span. errKind is empty on success.
func (m *SentryMetrics) RecordCompile(ctx context.Context, target string, clips, events int, duration time.Duration, errKind string) {
	if !m.enabled {
		return
	}

	// Attach the totals to the request transaction when there is one
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("compile.target", target)
		transaction.SetData("compile.clips", clips)
		transaction.SetData("compile.events", events)
	}

	span := sentry.StartSpan(ctx, "engine.compile")
	defer span.Finish()

	span.SetTag("target", target)
	span.SetData("clips", clips)
	span.SetData("events", events)
	span.SetData("duration_ms", duration.Milliseconds())

	if errKind == "" {
		span.Status = sentry.SpanStatusOK
	} else {
		span.SetTag("error_kind", errKind)
		span.Status = sentry.SpanStatusInvalidArgument
	}

	span.Description = fmt.Sprintf("Compile: %s", target)
}
