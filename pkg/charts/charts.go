// Package charts builds the dashboard visualizations from aggregated
// series. It only consumes already-aggregated data; no computation
// happens here.
package charts

import (
	"io"

	"github.com/co-tools/billing-atlas/pkg/models/domain"
	"github.com/co-tools/billing-atlas/pkg/money"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EvolutionLine plots period totals in chronological order.
func EvolutionLine(title string, groups []domain.AggregateGroup) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total ($)"}),
	)

	labels := make([]string, 0, len(groups))
	points := make([]opts.LineData, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Key)
		points = append(points, opts.LineData{Value: g.Total, Name: money.FormatPesos(g.Total)})
	}

	line.SetXAxis(labels).AddSeries("Total", points)
	return line
}

// TargetBar plots monthly target against realized billing, grouped.
func TargetBar(rows []domain.TargetComparison) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Meta vs Facturación Real por Mes"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Monto ($)"}),
	)

	months := make([]string, 0, len(rows))
	targetData := make([]opts.BarData, 0, len(rows))
	actualData := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		months = append(months, r.MonthName)
		targetData = append(targetData, opts.BarData{Value: r.Target})
		actualData = append(actualData, opts.BarData{Value: r.Actual})
	}

	bar.SetXAxis(months).
		AddSeries("Meta Facturación", targetData).
		AddSeries("Facturado", actualData)
	return bar
}

// ComplianceLine plots the percentage of target reached per month.
func ComplianceLine(rows []domain.TargetComparison) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "% de Cumplimiento por Mes"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Porcentaje (%)"}),
	)

	months := make([]string, 0, len(rows))
	points := make([]opts.LineData, 0, len(rows))
	for _, r := range rows {
		months = append(months, r.MonthName)
		points = append(points, opts.LineData{Value: r.Ratio})
	}

	line.SetXAxis(months).AddSeries("% Cumplimiento", points)
	return line
}

// ParetoChart plots group values as bars with the cumulative percentage
// overlaid as a line.
func ParetoChart(title string, entries []domain.ParetoEntry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	labels := make([]string, 0, len(entries))
	values := make([]opts.BarData, 0, len(entries))
	cumulative := make([]opts.LineData, 0, len(entries))
	for _, e := range entries {
		labels = append(labels, e.Key)
		values = append(values, opts.BarData{Value: e.Value})
		cumulative = append(cumulative, opts.LineData{Value: e.CumulativePct})
	}

	bar.SetXAxis(labels).AddSeries("Total", values)

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries("% acumulado", cumulative)
	bar.Overlap(line)
	return bar
}

// SalesBar plots total billing per salesperson.
func SalesBar(groups []domain.AggregateGroup) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Total Facturación por Comercial"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Total Valor Facturado ($)"}),
	)

	labels := make([]string, 0, len(groups))
	values := make([]opts.BarData, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Key)
		values = append(values, opts.BarData{Value: g.Total, Name: money.FormatPesos(g.Total)})
	}

	bar.SetXAxis(labels).AddSeries("Total", values)
	return bar
}

// RenderPage writes a single HTML page containing the given charts.
func RenderPage(w io.Writer, title string, cs ...components.Charter) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(cs...)
	return page.Render(w)
}
