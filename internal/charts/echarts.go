// Package charts renders the derived occupancy tables for the UI layer:
// go-echarts HTML pages served from the API, and gonum/plot PNGs written
// by the offline CLI.
package charts

import (
	"fmt"
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

// viridis is the colour ramp used for heatmap cells.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// RenderMonthlyBar writes an HTML bar chart of monthly record totals.
func RenderMonthlyBar(w io.Writer, summaries []analysis.MonthSummary) error {
	x := make([]string, len(summaries))
	y := make([]opts.BarData, len(summaries))
	for i, s := range summaries {
		x[i] = s.Label
		y[i] = opts.BarData{Value: s.Total}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: "Monthly Totals", Width: "100%", Height: "720px"}),
		echarts.WithTitleOpts(opts.Title{Title: "Monthly Totals", Subtitle: fmt.Sprintf("%d months", len(summaries))}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("total", y,
			echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	return bar.Render(w)
}

// RenderHeatmap writes an HTML weekday-by-hour heatmap. Cell values are
// already normalized to [0, 1] by the aggregator.
func RenderHeatmap(w io.Writer, h *analysis.Heatmap, title string) error {
	hours := make([]string, 24)
	for i := range hours {
		hours[i] = fmt.Sprintf("%02d:00", i)
	}

	// Weekday rows are reversed so Sunday renders at the top.
	weekdays := make([]string, len(analysis.WeekdayNames))
	for i, name := range analysis.WeekdayNames {
		weekdays[len(weekdays)-1-i] = name
	}

	data := make([]opts.HeatMapData, 0, 7*24)
	for wi := range h.Values {
		for hour, v := range h.Values[wi] {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{hour, len(weekdays) - 1 - wi, v}})
		}
	}

	hm := echarts.NewHeatMap()
	hm.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "category", Data: hours, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "category", Data: weekdays, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		echarts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries("occupancy", data)

	return hm.Render(w)
}
