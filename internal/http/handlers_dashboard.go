package http

import (
	"errors"
	"net/http"
	"time"

	"finboard/internal/charts"
	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/log"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
)

// handleIndex renders the page shell. Every panel loads itself through its
// partial, so the shell needs no backend.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", struct{ Today string }{s.now().Format(time.DateOnly)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	p := ParseListParams(r.URL.Query(), summaryPageSize)
	ov, err := s.dashboard(r, b).Overview(r.Context(), p)
	if err != nil {
		s.fail(w, r, "load the summary", err)
		return
	}
	s.render(w, r, "summary.html", ov)
}

// handleActivity renders the feed. A failed source fails the whole panel.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	feed, err := s.dashboard(r, b).RecentActivity(r.Context())
	if err != nil {
		s.fail(w, r, "load recent activity", err)
		return
	}
	s.render(w, r, "activity.html", feed)
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	views, err := s.dashboard(r, b).Budgets(r.Context())
	if err != nil {
		s.fail(w, r, "load budgets", err)
		return
	}
	s.render(w, r, "budgets.html", views)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	p := ParseListParams(r.URL.Query(), transactionsPageSize)
	page, err := s.dashboard(r, b).Transactions(r.Context(), p)
	if err != nil {
		s.fail(w, r, "load transactions", err)
		return
	}

	// Both sources page together; the larger one decides whether there is more.
	pages := max(page.Expenses.Pages, page.Incomes.Pages)
	s.render(w, r, "transactions.html", struct {
		services.TransactionsPage
		Page, Pages, Prev, Next, Limit int
		Category                       string
	}{
		TransactionsPage: page,
		Page:             p.Page,
		Pages:            pages,
		Prev:             p.Page - 1,
		Next:             nextPage(p.Page, pages),
		Limit:            p.Limit,
		Category:         p.CategoryID,
	})
}

// nextPage is 0 when page is the last one.
func nextPage(page, pages int) int {
	if page >= pages {
		return 0
	}
	return page + 1
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	accounts, err := s.dashboard(r, b).Accounts(r.Context())
	if err != nil {
		s.fail(w, r, "load accounts", err)
		return
	}
	s.render(w, r, "accounts.html", struct {
		Accounts []core.Account
		Types    []core.AccountType
	}{accounts, core.AccountTypes()})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	views, err := s.dashboard(r, b).Categories(r.Context())
	if err != nil {
		s.fail(w, r, "load categories", err)
		return
	}
	s.render(w, r, "categories.html", views)
}

// handleForms renders the entry forms with their select options.
func (s *Server) handleForms(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	opts, err := s.dashboard(r, b).Options(r.Context())
	if err != nil {
		s.fail(w, r, "load form options", err)
		return
	}
	s.render(w, r, "forms.html", struct {
		services.Options
		Today        string
		AccountTypes []core.AccountType
	}{opts, s.now().Format(time.DateOnly), core.AccountTypes()})
}

func (s *Server) handleOverviewChart(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	ov, err := s.dashboard(r, b).Overview(r.Context(), ParseListParams(r.URL.Query(), summaryPageSize))
	if err != nil {
		s.fail(w, r, "load the overview chart", err)
		return
	}
	s.writePNG(w, r, "overview", func() ([]byte, error) { return s.charts.Overview(ov.Summary) })
}

func (s *Server) handleCategoriesChart(w http.ResponseWriter, r *http.Request, b finance.Backend) {
	ov, err := s.dashboard(r, b).Overview(r.Context(), ParseListParams(r.URL.Query(), summaryPageSize))
	if err != nil {
		s.fail(w, r, "load the category chart", err)
		return
	}
	s.writePNG(w, r, "categories", func() ([]byte, error) { return s.charts.Categories(ov.ByCategory) })
}

// writePNG answers 204 when there is nothing to draw.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, name string, draw func() ([]byte, error)) {
	png, err := draw()
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.events.LogError(r.Context(), "Chart rendering failed", err,
			log.ComponentCharts, log.OpRender, log.NewFields().WithEntity("chart", name).WithRequestID(trace.GetRequestID(r.Context())))
		http.Error(w, "chart unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
