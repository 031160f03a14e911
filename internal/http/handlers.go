package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"finboard/internal/core"
	"finboard/internal/finance/rest"
	"finboard/internal/log"
	"finboard/internal/middleware/trace"
)

// appMetrics counts what the dashboard did since start.
type appMetrics struct {
	started        time.Time
	mutations      int64
	validationErrs int64
	upstreamErrs   int64
}

func newAppMetrics() *appMetrics {
	return &appMetrics{started: time.Now()}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.started).Round(time.Second).String(),
	})
}

// handleReady checks the templates and, when no caller credential is
// needed, that the finance backend answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.connector.RequiresCredential() {
		checks["finance_backend"] = "skipped: needs caller credential"
	} else if _, err := s.connector.Connect(nil).ListCategories(ctx); err != nil {
		checks["finance_backend"] = fmt.Sprintf("failed: %v", err)
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["finance_backend"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	rateLimitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}

	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	metric("http_response_time_avg_microseconds", "gauge", "Average response time", traceMetrics.AverageResponseTime)
	metric("finance_mutations_total", "counter", "Successful creates, updates and deletes", atomic.LoadInt64(&s.metrics.mutations))
	metric("validation_errors_total", "counter", "Rejected form submissions", atomic.LoadInt64(&s.metrics.validationErrs))
	metric("finance_upstream_errors_total", "counter", "Failed calls to the finance backend", atomic.LoadInt64(&s.metrics.upstreamErrs))
	metric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.metrics.started).Seconds()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail answers a failed operation. Validation problems get a 422 naming the
// field and no notification; everything else gets an error partial and one
// notification.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	var verr *core.ValidationError
	if errors.As(err, &verr) {
		atomic.AddInt64(&s.metrics.validationErrs, 1)
		logger.InfoContext(ctx, "Validation failed",
			log.FieldOperation, what,
			"field", verr.Field,
			log.FieldErrorType, log.ErrorTypeValidation)
		FieldErrorResponse(verr.Field, verr.Message).Write(w)
		return
	}

	if errors.Is(err, context.Canceled) {
		// The client went away; nobody is reading the response.
		return
	}

	atomic.AddInt64(&s.metrics.upstreamErrs, 1)
	var apiErr *rest.APIError
	s.events.LogError(ctx, "Finance request failed", err, log.ComponentFinance, what,
		log.NewFields().
			WithRequestID(trace.GetRequestID(ctx)).
			WithErrorType(errorType(err)))

	switch {
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
		UnauthorizedError("Sign in again to continue").
			TriggerErrorNotification("Your session has expired").
			Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("That record no longer exists").
			TriggerErrorNotification("Could not " + what + ": record not found").
			Write(w)
	case errors.As(err, &apiErr):
		BadGatewayError("Could not " + what).
			TriggerErrorNotification("Could not " + what + ": " + apiErr.Message).
			Write(w)
	case errors.Is(err, context.DeadlineExceeded):
		ErrorResponse(http.StatusGatewayTimeout, "Could not "+what).
			TriggerErrorNotification("Could not " + what + ": the finance service timed out").
			Write(w)
	default:
		BadGatewayError("Could not " + what).
			TriggerErrorNotification("Could not " + what + ": the finance service is unavailable").
			Write(w)
	}
}

// errorType classifies a failed finance call for the logs.
func errorType(err error) string {
	var apiErr *rest.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
		return log.ErrorTypeAuth
	case errors.Is(err, core.ErrNotFound):
		return log.ErrorTypeNotFound
	case errors.As(err, &apiErr):
		return log.ErrorTypeAPI
	case errors.Is(err, context.DeadlineExceeded):
		return log.ErrorTypeTimeout
	default:
		return log.ErrorTypeNetwork
	}
}

// succeed answers a mutation: the forms reset, every panel refetches and
// one notification confirms.
func (s *Server) succeed(w http.ResponseWriter, r *http.Request, op, entity, id, message string) {
	atomic.AddInt64(&s.metrics.mutations, 1)
	s.events.LogMutation(r.Context(), op, entity, id)

	status := http.StatusOK
	if op == log.OpCreate {
		status = http.StatusCreated
	}
	NewHTMXResponse().
		Status(status).
		TriggerRefresh(entity).
		TriggerFormReset().
		TriggerSuccessNotification(message).
		Write(w)
}
