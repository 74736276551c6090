// Package api exposes the derived occupancy tables over HTTP for the
// dashboard layer: dataset upload and listing, the calendar aggregates
// as JSON or CSV, and rendered chart pages.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/PI-TidalHealth/HORA/internal/db"
	"github.com/PI-TidalHealth/HORA/internal/monitoring"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db *db.DB
}

func NewServer(database *db.DB) *Server {
	return &Server{db: database}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/datasets", s.handleDatasets)
	mux.HandleFunc("/api/monthly", s.showMonthlySummary)
	mux.HandleFunc("/api/matrix", s.showPresenceMatrix)
	mux.HandleFunc("/api/weekdays", s.showWeekdayTotals)
	mux.HandleFunc("/api/heatmap", s.showHeatmap)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/charts/monthly", s.chartMonthly)
	mux.HandleFunc("/charts/heatmap", s.chartHeatmap)
	return mux
}
