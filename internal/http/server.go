// Package http serves the finboard dashboard: the page shell, htmx partials,
// chart images, the entry and delete handlers, and operational endpoints.
//
// Every dashboard request acts for its caller: the bearer credential from the
// request is handed to the backend connector, never stored on the server.
package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"finboard/internal/backend"
	"finboard/internal/charts"
	"finboard/internal/finance"
	"finboard/internal/finance/rest"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
	appweb "finboard/web"
)

const (
	// summaryPageSize bounds the transactions totalled by the summary and
	// the charts.
	summaryPageSize = 100
	// transactionsPageSize is the default page of the transactions table.
	transactionsPageSize = 20
)

// Config holds the server settings that are not backend specific.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	RecentPerSource    int
}

type Server struct {
	http.Server

	connector       backend.Connector
	templates       *template.Template
	charts          *charts.Generator
	logger          *log.Logger
	events          *log.StructuredLogger
	detector        *security.Detector
	limiter         *ratelimit.Limiter
	tracer          *trace.Middleware
	recentPerSource int
	now             func() time.Time
	metrics         *appMetrics
}

// NewServer parses the embedded templates and wires the routes. The
// connector supplies a finance backend per request.
func NewServer(cfg Config, connector backend.Connector, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		connector:       connector,
		templates:       tmpl,
		charts:          charts.NewGenerator(),
		logger:          logger,
		events:          log.NewStructuredLogger(logger),
		limiter:         ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RateLimitPerMinute}),
		recentPerSource: cfg.RecentPerSource,
		now:             time.Now,
		metrics:         newAppMetrics(),
	}
	s.detector = security.NewDetector(logger)
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux, static)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited,
		http.MethodPost, http.MethodDelete)

	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: s.tracer.Middleware(s.detector.Middleware(headers.Middleware(limit(mux)))),
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux, static fs.FS) {
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServerFS(static))))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /ui/summary", s.withBackend(s.handleSummary))
	mux.HandleFunc("GET /ui/activity", s.withBackend(s.handleActivity))
	mux.HandleFunc("GET /ui/budgets", s.withBackend(s.handleBudgets))
	mux.HandleFunc("GET /ui/transactions", s.withBackend(s.handleTransactions))
	mux.HandleFunc("GET /ui/accounts", s.withBackend(s.handleAccounts))
	mux.HandleFunc("GET /ui/categories", s.withBackend(s.handleCategories))
	mux.HandleFunc("GET /ui/forms", s.withBackend(s.handleForms))

	mux.HandleFunc("GET /charts/overview.png", s.withBackend(s.handleOverviewChart))
	mux.HandleFunc("GET /charts/categories.png", s.withBackend(s.handleCategoriesChart))

	mux.HandleFunc("POST /accounts", s.withBackend(s.handleCreateAccount))
	mux.HandleFunc("POST /accounts/{id}", s.withBackend(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.withBackend(s.handleDeleteAccount))

	mux.HandleFunc("POST /categories", s.withBackend(s.handleCreateCategory))
	mux.HandleFunc("POST /categories/{id}", s.withBackend(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.withBackend(s.handleDeleteCategory))

	mux.HandleFunc("POST /budgets", s.withBackend(s.handleCreateBudget))
	mux.HandleFunc("POST /budgets/{id}", s.withBackend(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.withBackend(s.handleDeleteBudget))

	mux.HandleFunc("POST /expenses", s.withBackend(s.handleCreateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.withBackend(s.handleDeleteExpense))
	mux.HandleFunc("POST /incomes", s.withBackend(s.handleCreateIncome))
	mux.HandleFunc("DELETE /incomes/{id}", s.withBackend(s.handleDeleteIncome))
}

// backendHandler serves one request against the caller's backend.
type backendHandler func(w http.ResponseWriter, r *http.Request, b finance.Backend)

// withBackend resolves the caller credential and connects a backend for
// this request only. Requests without one are refused when the backend
// needs it.
func (s *Server) withBackend(h backendHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ts oauth2.TokenSource
		if tok := bearerToken(r); tok != "" {
			ts = rest.BearerToken(tok)
		} else if s.connector.RequiresCredential() {
			s.logger.WarnContext(r.Context(), "Request without credential",
				log.FieldPath, r.URL.Path,
				log.FieldErrorType, log.ErrorTypeAuth)
			UnauthorizedError("Sign in to view your finances").
				TriggerErrorNotification("Your session is missing or expired").
				Write(w)
			return
		}
		h(w, r, s.connector.Connect(ts))
	}
}

// dashboard builds the per-request service over b.
func (s *Server) dashboard(r *http.Request, b finance.Backend) *services.DashboardService {
	return services.NewDashboardService(b,
		services.WithRecentPerSource(s.recentPerSource),
		services.WithClock(s.now),
		services.WithLogger(log.FromContext(r.Context())))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many changes, try again in a minute").
		TriggerErrorNotification("Too many changes, try again in a minute").
		Write(w)
}

// render executes a named template. Nothing is written if execution fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.events.LogError(r.Context(), "Template execution failed", err,
			log.ComponentTemplate, log.OpRender, log.NewFields().WithEntity("template", name))
		ErrorResponse(http.StatusInternalServerError, "Could not render this view").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Shutdown stops accepting requests and releases the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
