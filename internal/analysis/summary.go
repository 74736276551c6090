package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MonthSummary is one calendar month's aggregate over the observations
// that fall in it. Month is the sortable "YYYY-MM" key; Label is the
// display form ("Jan 25").
type MonthSummary struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Records int     `json:"records"`
	Total   float64 `json:"total"`
	Mean    float64 `json:"mean"`
}

// MonthlySummary groups observations by calendar (year, month) and
// returns one row per month with at least one observation, sorted by
// month key. No synthetic months are emitted for gaps.
func MonthlySummary(obs []Observation) []MonthSummary {
	groups := make(map[string][]float64)
	var order []string
	for _, o := range obs {
		key := o.Date.Format("2006-01")
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], o.Count)
	}
	sort.Strings(order)

	out := make([]MonthSummary, 0, len(order))
	for _, key := range order {
		counts := groups[key]
		first, _ := time.Parse("2006-01", key)
		out = append(out, MonthSummary{
			Month:   key,
			Label:   first.Format("Jan 06"),
			Records: len(counts),
			Total:   floats.Sum(counts),
			Mean:    stat.Mean(counts, nil),
		})
	}
	return out
}
