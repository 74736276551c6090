package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
)

// SaveWeekdayBar writes a PNG bar chart of totals per weekday, in the
// fixed Sunday-through-Saturday order.
func SaveWeekdayBar(path string, totals []analysis.WeekdayTotal) error {
	p := plot.New()
	p.Title.Text = "Total by Weekday"
	p.X.Label.Text = "Weekday"
	p.Y.Label.Text = "Total"

	values := make(plotter.Values, len(totals))
	names := make([]string, len(totals))
	for i, wt := range totals {
		values[i] = wt.Total
		names[i] = wt.Weekday
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save weekday bar: %w", err)
	}
	return nil
}

// SaveOccupancyLine writes a PNG line plot of the per-date totals across
// the presence matrix range.
func SaveOccupancyLine(path string, m *analysis.PresenceMatrix) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Daily Totals %s to %s",
		m.MinDate().Format("2006-01-02"), m.MaxDate().Format("2006-01-02"))
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total"
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}

	pts := make(plotter.XYs, len(m.Rows))
	for i, row := range m.Rows {
		pts[i] = plotter.XY{X: float64(row.Date.Unix()), Y: row.Total}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save occupancy line: %w", err)
	}
	return nil
}
