// Package services orchestrates the finance backend into the views the
// dashboard, the worker and the terminal client render.
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/core"
	"finboard/internal/finance"
	"finboard/internal/log"
)

// DefaultRecentPerSource is how many records each source contributes to the
// activity feed before merging.
const DefaultRecentPerSource = 5

type (
	// Overview is the income and expense picture for a set of transactions.
	Overview struct {
		Summary    core.Summary
		ByCategory []core.CategoryAmount
		Expenses   core.Pagination
		Incomes    core.Pagination
	}

	BudgetView struct {
		Budget       core.Budget
		AccountName  string
		CategoryName string
		Progress     core.BudgetProgress
	}

	TransactionView struct {
		Transaction  core.Transaction
		CategoryName string
		BudgetName   string
		AccountName  string
	}

	// TransactionsPage merges one page of expenses and one page of incomes.
	TransactionsPage struct {
		Items    []TransactionView
		Expenses core.Pagination
		Incomes  core.Pagination
	}

	CategoryView struct {
		Category   core.Category
		ParentName string
	}

	// Reference data for forms.
	Options struct {
		Accounts   []core.Account
		Categories []core.Category
		Budgets    []core.Budget
	}
)

type DashboardService struct {
	backend         finance.Backend
	recentPerSource int
	now             func() time.Time
	logger          *log.Logger
	structured      *log.StructuredLogger
}

type DashboardOption func(*DashboardService)

func WithRecentPerSource(n int) DashboardOption {
	return func(s *DashboardService) {
		if n > 0 {
			s.recentPerSource = n
		}
	}
}

func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

func WithLogger(l *log.Logger) DashboardOption {
	return func(s *DashboardService) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentDashboard)
		}
	}
}

func NewDashboardService(backend finance.Backend, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		backend:         backend,
		recentPerSource: DefaultRecentPerSource,
		now:             time.Now,
		logger:          log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.structured = log.NewStructuredLogger(s.logger)
	return s
}

// RecentActivity fetches the newest expenses, incomes and budgets at once and
// merges them into the feed. Any failed fetch fails the whole feed.
func (s *DashboardService) RecentActivity(ctx context.Context) ([]core.Activity, error) {
	var (
		expenses, incomes finance.Page
		budgets           []core.Budget
	)
	params := finance.Recent(s.recentPerSource)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.backend.ListExpenses(gctx, params)
		return wrap("recent expenses", err)
	})
	g.Go(func() (err error) {
		incomes, err = s.backend.ListIncomes(gctx, params)
		return wrap("recent incomes", err)
	})
	g.Go(func() (err error) {
		budgets, err = s.backend.ListBudgets(gctx)
		return wrap("recent budgets", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	feed := core.MergeActivities(expenses.Items, incomes.Items, newestBudgets(budgets, s.recentPerSource), s.now())
	for _, a := range feed {
		if a.TimestampMissing {
			s.structured.LogDataQuality(ctx, "Activity has no creation time, using merge time",
				log.NewFields().
					WithOperation(log.OpMerge).
					WithActivity(string(a.Kind), a.ID()))
		}
	}
	return feed, nil
}

// newestBudgets keeps the n most recently created budgets, newest first.
// The budget listing has no limit of its own.
func newestBudgets(budgets []core.Budget, n int) []core.Budget {
	sorted := append([]core.Budget(nil), budgets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// maxOverviewPages bounds the page walk against a server that never reports
// a last page.
const maxOverviewPages = 1000

type listFunc func(ctx context.Context, p finance.ListParams) (finance.Page, error)

// listAll walks every page of the selection p describes, using p.Limit as
// the page size. The returned page carries the first page's pagination.
func listAll(ctx context.Context, list listFunc, p finance.ListParams) (finance.Page, error) {
	var all finance.Page
	for page := 1; page <= maxOverviewPages; page++ {
		p.Page = page
		pg, err := list(ctx, p)
		if err != nil {
			return finance.Page{}, err
		}
		if page == 1 {
			all.Pagination = pg.Pagination
		}
		all.Items = append(all.Items, pg.Items...)
		if len(pg.Items) == 0 || page >= pg.Pagination.Pages {
			break
		}
	}
	return all, nil
}

// Overview totals every transaction selected by p, across all pages.
// Expenses, incomes and categories are fetched together; any failure fails
// the overview.
func (s *DashboardService) Overview(ctx context.Context, p finance.ListParams) (Overview, error) {
	var (
		expenses, incomes finance.Page
		categories        []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = listAll(gctx, s.backend.ListExpenses, p)
		return wrap("overview expenses", err)
	})
	g.Go(func() (err error) {
		incomes, err = listAll(gctx, s.backend.ListIncomes, p)
		return wrap("overview incomes", err)
	})
	g.Go(func() (err error) {
		categories, err = s.backend.ListCategories(gctx)
		return wrap("overview categories", err)
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	all := make([]core.Transaction, 0, len(expenses.Items)+len(incomes.Items))
	all = append(all, expenses.Items...)
	all = append(all, incomes.Items...)

	return Overview{
		Summary:    core.Summarize(all),
		ByCategory: core.ExpensesByCategory(expenses.Items, categories),
		Expenses:   expenses.Pagination,
		Incomes:    incomes.Pagination,
	}, nil
}

// Budgets returns every budget with its account and category resolved and
// its progress computed.
func (s *DashboardService) Budgets(ctx context.Context) ([]BudgetView, error) {
	var (
		budgets    []core.Budget
		accounts   []core.Account
		categories []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		budgets, err = s.backend.ListBudgets(gctx)
		return wrap("budgets", err)
	})
	g.Go(func() (err error) {
		accounts, err = s.backend.ListAccounts(gctx)
		return wrap("budget accounts", err)
	})
	g.Go(func() (err error) {
		categories, err = s.backend.ListCategories(gctx)
		return wrap("budget categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accountNames := core.NewLookup(accounts)
	categoryNames := core.NewLookup(categories)

	views := make([]BudgetView, len(budgets))
	for i, b := range budgets {
		views[i] = BudgetView{
			Budget:       b,
			AccountName:  core.ResolveName(b.Account, accountNames, core.NoAccount),
			CategoryName: core.ResolveName(b.Category, categoryNames, core.Uncategorized),
			Progress:     core.ProgressOf(b),
		}
	}
	return views, nil
}

// Transactions returns one page of expenses and incomes, newest first, with
// every relationship resolved to a name.
func (s *DashboardService) Transactions(ctx context.Context, p finance.ListParams) (TransactionsPage, error) {
	var (
		expenses, incomes finance.Page
		opts              Options
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = s.backend.ListExpenses(gctx, p)
		return wrap("transactions expenses", err)
	})
	g.Go(func() (err error) {
		incomes, err = s.backend.ListIncomes(gctx, p)
		return wrap("transactions incomes", err)
	})
	g.Go(func() (err error) {
		opts, err = s.fetchOptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return TransactionsPage{}, err
	}

	accountNames := core.NewLookup(opts.Accounts)
	categoryNames := core.NewLookup(opts.Categories)
	budgetNames := core.NewLookup(opts.Budgets)

	items := make([]TransactionView, 0, len(expenses.Items)+len(incomes.Items))
	for _, t := range append(append([]core.Transaction(nil), expenses.Items...), incomes.Items...) {
		items = append(items, TransactionView{
			Transaction:  t,
			CategoryName: core.ResolveName(t.Category, categoryNames, core.UnknownCategory),
			BudgetName:   budgetName(t, budgetNames),
			AccountName:  core.ResolveName(t.Account, accountNames, core.UnknownAccount),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Transaction.CreatedAt.After(items[j].Transaction.CreatedAt)
	})

	return TransactionsPage{Items: items, Expenses: expenses.Pagination, Incomes: incomes.Pagination}, nil
}

// budgetName leaves unattributed transactions blank; only a dangling budget
// reference shows the sentinel.
func budgetName(t core.Transaction, names core.Lookup) string {
	if t.Budget.IsZero() {
		return ""
	}
	return core.ResolveName(t.Budget, names, core.UnknownBudget)
}

func (s *DashboardService) Accounts(ctx context.Context) ([]core.Account, error) {
	accounts, err := s.backend.ListAccounts(ctx)
	return accounts, wrap("accounts", err)
}

// Categories returns every category with its parent resolved. Top-level
// categories have an empty ParentName.
func (s *DashboardService) Categories(ctx context.Context) ([]CategoryView, error) {
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, wrap("categories", err)
	}
	names := core.NewLookup(categories)
	views := make([]CategoryView, len(categories))
	for i, c := range categories {
		views[i] = CategoryView{Category: c, ParentName: core.ResolveName(c.Parent, names, "")}
	}
	return views, nil
}

// Options fetches the reference data the entry forms offer.
func (s *DashboardService) Options(ctx context.Context) (Options, error) {
	return s.fetchOptions(ctx)
}

func (s *DashboardService) fetchOptions(ctx context.Context) (Options, error) {
	var opts Options

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		opts.Accounts, err = s.backend.ListAccounts(gctx)
		return wrap("accounts", err)
	})
	g.Go(func() (err error) {
		opts.Categories, err = s.backend.ListCategories(gctx)
		return wrap("categories", err)
	})
	g.Go(func() (err error) {
		opts.Budgets, err = s.backend.ListBudgets(gctx)
		return wrap("budgets", err)
	})
	if err := g.Wait(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}
