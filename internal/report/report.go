package report

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/services"
)

// barSteps gives the bars one-decimal resolution.
const barSteps = 1000

type Renderer struct {
	w io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) title(s string) {
	fmt.Fprintln(r.w, TitleStyle.Render(s))
}

// Summary prints income, expense and net in a box.
func (r *Renderer) Summary(s core.Summary) {
	net := IncomeStyle
	if s.Net.IsNegative() {
		net = ExpenseStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Income   %s", IncomeStyle.Render(core.FormatAmount(s.TotalIncome))),
		fmt.Sprintf("Expense  %s", ExpenseStyle.Render(core.FormatAmount(s.TotalExpense))),
		fmt.Sprintf("Net      %s", net.Bold(true).Render(core.FormatAmount(s.Net))),
	)
	r.title("Financial summary")
	fmt.Fprintln(r.w, BoxStyle.Render(body))
}

// Feed prints the activity feed, newest first.
func (r *Renderer) Feed(feed []core.Activity) {
	r.title("Recent activity")
	if len(feed) == 0 {
		fmt.Fprintln(r.w, SubtleStyle.Render("No recent activity"))
		return
	}
	for _, a := range feed {
		when := a.Timestamp.Format("2006-01-02 15:04")
		if a.TimestampMissing {
			when = "unknown date    "
		}
		fmt.Fprintf(r.w, "%s  %s  %s\n", SubtleStyle.Render(when), activityLine(a), BoldStyle.Render(a.Title()))
	}
}

func activityLine(a core.Activity) string {
	switch a.Kind {
	case core.ActivityIncome:
		return IncomeStyle.Render(fmt.Sprintf("%s %10s", IncomeIcon, core.FormatAmount(a.Transaction.Amount)))
	case core.ActivityExpense:
		return ExpenseStyle.Render(fmt.Sprintf("%s %10s", ExpenseIcon, core.FormatAmount(a.Transaction.Amount)))
	default:
		return SubtleStyle.Render(fmt.Sprintf("%s %10s", BudgetIcon, core.FormatAmount(a.Budget.Amount)))
	}
}

// Budgets prints one progress bar per budget. The bar fill and the label
// come from the same progress value.
func (r *Renderer) Budgets(views []services.BudgetView) {
	r.title("Budgets")
	if len(views) == 0 {
		fmt.Fprintln(r.w, SubtleStyle.Render("No budgets"))
		return
	}
	for _, v := range views {
		name := v.Budget.Name
		if name == "" {
			name = core.UnnamedBudget
		}
		label := v.Progress.Label
		if v.Progress.Overspent {
			label = WarningStyle.Render(WarningIcon + " " + label)
		}

		bar := progressbar.NewOptions(barSteps,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(fmt.Sprintf("%-18s", name)),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		_ = bar.Set(int(math.Round(v.Progress.Percent * barSteps / 100)))
		fmt.Fprintf(r.w, " %s  %s / %s  %s\n",
			label,
			core.FormatAmount(v.Budget.CurrentSpending),
			core.FormatAmount(v.Budget.Limit),
			SubtleStyle.Render(v.AccountName+" · "+v.CategoryName))
	}
}

// Alert prints one budget alert taken off the queue.
func (r *Renderer) Alert(msg *amqp.BudgetAlertMessage) {
	fmt.Fprintln(r.w, WarningStyle.Render(fmt.Sprintf("%s %s is at %s (%s of %s)",
		WarningIcon, msg.Name, msg.Label,
		core.FormatAmount(msg.CurrentSpending), core.FormatAmount(msg.Limit))))
}
