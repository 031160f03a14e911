// Package charts renders dashboard charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"finboard/internal/core"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

var (
	incomeColor  = drawing.ColorFromHex("2e7d32")
	expenseColor = drawing.ColorFromHex("c62828")
	barColor     = drawing.ColorFromHex("1565c0")
)

type Generator struct {
	Width  int
	Height int
}

func NewGenerator() *Generator {
	return &Generator{Width: 800, Height: 400}
}

func background() chart.Style {
	return chart.Style{
		Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		FillColor: chart.ColorWhite,
	}
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Overview draws income against expense as a pie.
func (g *Generator) Overview(s core.Summary) ([]byte, error) {
	var values []chart.Value
	if s.TotalIncome.IsPositive() {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Income: %s", core.FormatAmount(s.TotalIncome)),
			Value: amount(s.TotalIncome),
			Style: chart.Style{FillColor: incomeColor, FontSize: 12, FontColor: chart.ColorBlack},
		})
	}
	if s.TotalExpense.IsPositive() {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Expense: %s", core.FormatAmount(s.TotalExpense)),
			Value: amount(s.TotalExpense),
			Style: chart.Style{FillColor: expenseColor, FontSize: 12, FontColor: chart.ColorBlack},
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      fmt.Sprintf("Net %s", core.FormatAmount(s.Net)),
		Width:      g.Width,
		Height:     g.Height,
		Values:     values,
		Background: background(),
	}

	buffer := bytes.NewBuffer(nil)
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render overview chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// Categories draws one bar per category with spending.
func (g *Generator) Categories(rows []core.CategoryAmount) ([]byte, error) {
	var bars []chart.Value
	for _, r := range rows {
		if !r.Amount.IsPositive() {
			continue
		}
		bars = append(bars, chart.Value{
			Label: r.Name,
			Value: amount(r.Amount),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title:      "Expenses by category",
		Width:      g.Width,
		Height:     g.Height,
		BarWidth:   40,
		Background: background(),
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}
