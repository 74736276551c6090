package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PI-TidalHealth/HORA/internal/analysis"
	"github.com/PI-TidalHealth/HORA/internal/charts"
	"github.com/PI-TidalHealth/HORA/internal/db"
	"github.com/PI-TidalHealth/HORA/internal/httputil"
	"github.com/PI-TidalHealth/HORA/internal/ingest"
	"github.com/PI-TidalHealth/HORA/internal/monitoring"
)

// rangeFormat is the start/end query parameter date format.
const rangeFormat = "2006-01-02"

// coreErrorStatus maps core data-shape errors onto HTTP status codes.
// Anything else is a server fault.
func coreErrorStatus(err error) int {
	var pe *analysis.ParseError
	switch {
	case errors.Is(err, analysis.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrEmptyInput),
		errors.Is(err, analysis.ErrMissingColumn),
		errors.As(err, &pe):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// loadMatrix loads a dataset's records and runs them through the parser
// and the requested matrix builder.
func (s *Server) loadMatrix(datasetID string, duration bool) (*analysis.PresenceMatrix, error) {
	records, err := s.db.Records(datasetID)
	if err != nil {
		return nil, err
	}
	obs, err := analysis.ParseRecords(records)
	if err != nil {
		return nil, err
	}
	if duration {
		return analysis.BuildDurationMatrix(obs)
	}
	return analysis.BuildPresenceMatrix(obs)
}

// rangeParams reads the optional start/end query parameters, falling
// back to the matrix's own date range.
func rangeParams(r *http.Request, m *analysis.PresenceMatrix) (start, end time.Time, err error) {
	start, end = m.MinDate(), m.MaxDate()
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err = time.ParseInLocation(rangeFormat, raw, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("invalid 'start' parameter %q", raw)
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err = time.ParseInLocation(rangeFormat, raw, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("invalid 'end' parameter %q", raw)
		}
	}
	return start, end, nil
}

// recordRun stores the run history entry for a range-scoped aggregation.
// Failure to record is logged but never fails the request.
func (s *Server) recordRun(datasetID, kind string, start, end time.Time) {
	run := &db.AnalysisRun{
		DatasetID: datasetID,
		Kind:      kind,
		StartDate: start.Format(rangeFormat),
		EndDate:   end.Format(rangeFormat),
	}
	if err := s.db.RecordRun(run); err != nil {
		monitoring.Logf("failed to record %s run for dataset %s: %v", kind, datasetID, err)
	}
}

func datasetParam(r *http.Request) (string, error) {
	id := r.URL.Query().Get("dataset")
	if id == "" {
		return "", fmt.Errorf("missing 'dataset' parameter")
	}
	return id, nil
}

// wantCSV reports whether the caller asked for a CSV export.
func wantCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func writeCSV(w http.ResponseWriter, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, row := range rows {
		cw.Write(row)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		monitoring.Logf("failed to write csv response: %v", err)
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		datasets, err := s.db.ListDatasets()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to list datasets: %v", err))
			return
		}
		if datasets == nil {
			datasets = []db.Dataset{}
		}
		httputil.WriteJSONOK(w, datasets)

	case http.MethodPost:
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "upload"
		}
		records, err := ingest.ReadCSV(r.Body)
		if err != nil {
			httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to read dataset: %v", err))
			return
		}
		// Validate dates up front so a bad upload is rejected whole.
		if _, err := analysis.ParseRecords(records); err != nil {
			httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to parse dataset: %v", err))
			return
		}
		ds, err := s.db.CreateDataset(name, records)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to store dataset: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, ds)

	case http.MethodDelete:
		id := r.URL.Query().Get("dataset")
		if id == "" {
			httputil.BadRequest(w, "missing 'dataset' parameter")
			return
		}
		if err := s.db.DeleteDataset(id); err != nil {
			if strings.Contains(err.Error(), "not found") {
				httputil.NotFound(w, err.Error())
			} else {
				httputil.InternalServerError(w, fmt.Sprintf("failed to delete dataset: %v", err))
			}
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"deleted": id})

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) showMonthlySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	records, err := s.db.Records(datasetID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load records: %v", err))
		return
	}
	obs, err := analysis.ParseRecords(records)
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to parse records: %v", err))
		return
	}
	summaries := analysis.MonthlySummary(obs)

	if wantCSV(r) {
		rows := make([][]string, 0, len(summaries))
		for _, m := range summaries {
			rows = append(rows, []string{m.Month, m.Label, strconv.Itoa(m.Records), ftoa(m.Total), ftoa(m.Mean)})
		}
		writeCSV(w, []string{"month", "label", "records", "total", "mean"}, rows)
		return
	}
	httputil.WriteJSONOK(w, summaries)
}

// matrixResponse frames a presence matrix with its date range so the
// caller can derive the analysis range without rescanning rows.
type matrixResponse struct {
	MinDate string            `json:"min_date"`
	MaxDate string            `json:"max_date"`
	Rows    []analysis.DayRow `json:"rows"`
}

func (s *Server) showPresenceMatrix(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	m, err := s.loadMatrix(datasetID, r.URL.Query().Get("metric") == "duration")
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to build matrix: %v", err))
		return
	}

	if wantCSV(r) {
		header := []string{"date", "weekday"}
		for h := 0; h < 24; h++ {
			header = append(header, strconv.Itoa(h))
		}
		header = append(header, "total")

		rows := make([][]string, 0, len(m.Rows))
		for _, row := range m.Rows {
			fields := []string{row.Date.Format(rangeFormat), row.Weekday}
			for _, v := range row.Hours {
				fields = append(fields, ftoa(v))
			}
			fields = append(fields, ftoa(row.Total))
			rows = append(rows, fields)
		}
		writeCSV(w, header, rows)
		return
	}

	httputil.WriteJSONOK(w, matrixResponse{
		MinDate: m.MinDate().Format(rangeFormat),
		MaxDate: m.MaxDate().Format(rangeFormat),
		Rows:    m.Rows,
	})
}

func (s *Server) showWeekdayTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	m, err := s.loadMatrix(datasetID, r.URL.Query().Get("metric") == "duration")
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to build matrix: %v", err))
		return
	}
	start, end, err := rangeParams(r, m)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	totals, err := analysis.WeekdayTotals(m, start, end)
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to aggregate weekdays: %v", err))
		return
	}
	s.recordRun(datasetID, "weekday", start, end)

	if wantCSV(r) {
		rows := make([][]string, 0, len(totals))
		for _, wt := range totals {
			rows = append(rows, []string{wt.Weekday, ftoa(wt.Total)})
		}
		writeCSV(w, []string{"weekday", "total"}, rows)
		return
	}
	httputil.WriteJSONOK(w, totals)
}

// heatmapResponse carries both the matrix form and the flat cell list so
// the dashboard can plot without reshaping.
type heatmapResponse struct {
	Weekdays []string               `json:"weekdays"`
	Values   [7][24]float64         `json:"values"`
	Cells    []analysis.HeatmapCell `json:"cells"`
}

func (s *Server) showHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	m, err := s.loadMatrix(datasetID, r.URL.Query().Get("metric") == "duration")
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to build matrix: %v", err))
		return
	}

	var h *analysis.Heatmap
	if week := r.URL.Query().Get("week"); week != "" {
		h, err = analysis.WeekHeatmap(m, week)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("failed to aggregate heatmap: %v", err))
			return
		}
		s.recordRun(datasetID, "week-heatmap", m.MinDate(), m.MaxDate())
	} else {
		start, end, err := rangeParams(r, m)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		h, err = analysis.NormalizedHeatmap(m, start, end)
		if err != nil {
			httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to aggregate heatmap: %v", err))
			return
		}
		s.recordRun(datasetID, "heatmap", start, end)
	}

	if wantCSV(r) {
		cells := h.Flatten()
		rows := make([][]string, 0, len(cells))
		for _, cell := range cells {
			rows = append(rows, []string{cell.Weekday, strconv.Itoa(cell.Hour), ftoa(cell.Value)})
		}
		writeCSV(w, []string{"weekday", "hour", "value"}, rows)
		return
	}

	httputil.WriteJSONOK(w, heatmapResponse{
		Weekdays: analysis.WeekdayNames[:],
		Values:   h.Values,
		Cells:    h.Flatten(),
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	// A run id fetches a single run; otherwise list by dataset.
	if id := r.URL.Query().Get("id"); id != "" {
		run, err := s.db.GetRun(id)
		if err != nil {
			httputil.NotFound(w, err.Error())
			return
		}
		httputil.WriteJSONOK(w, run)
		return
	}

	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.db.RecentRuns(datasetID, limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.AnalysisRun{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) chartMonthly(w http.ResponseWriter, r *http.Request) {
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	records, err := s.db.Records(datasetID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to load records: %v", err))
		return
	}
	obs, err := analysis.ParseRecords(records)
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to parse records: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderMonthlyBar(w, analysis.MonthlySummary(obs)); err != nil {
		monitoring.Logf("failed to render monthly chart: %v", err)
	}
}

func (s *Server) chartHeatmap(w http.ResponseWriter, r *http.Request) {
	datasetID, err := datasetParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	m, err := s.loadMatrix(datasetID, r.URL.Query().Get("metric") == "duration")
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to build matrix: %v", err))
		return
	}
	start, end, err := rangeParams(r, m)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	h, err := analysis.NormalizedHeatmap(m, start, end)
	if err != nil {
		httputil.WriteJSONError(w, coreErrorStatus(err), fmt.Sprintf("failed to aggregate heatmap: %v", err))
		return
	}

	title := fmt.Sprintf("Occupancy %s to %s", start.Format(rangeFormat), end.Format(rangeFormat))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderHeatmap(w, h, title); err != nil {
		monitoring.Logf("failed to render heatmap chart: %v", err)
	}
}
