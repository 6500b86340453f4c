package server

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/valoruf/valoruf/internal/rates"
)

const isoDate = "2006-01-02"

// handleValue serves GET /api/uf/{date}. ?format=raw returns the bare value
// as text instead of the JSON envelope.
func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(isoDate, date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
		return
	}

	res, err := s.svc.Value(r.Context(), date)
	if err != nil {
		zap.L().Warn("server: value lookup failed",
			zap.String("date", date),
			zap.Error(err),
		)
		writeError(w, http.StatusNotFound, fmt.Sprintf("Could not retrieve UF value for %s.", date))
		return
	}

	if r.URL.Query().Get("format") == "raw" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strconv.FormatFloat(res.Value, 'f', -1, 64)))
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleRange serves GET /api/uf/{start}/{end}. Days that could not be
// resolved are omitted from the response; ?format=csv returns the rows as a
// downloadable file.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	start := chi.URLParam(r, "start")
	end := chi.URLParam(r, "end")

	from, err := time.Parse(isoDate, start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
		return
	}
	to, err := time.Parse(isoDate, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
		return
	}
	if from.After(to) {
		writeError(w, http.StatusBadRequest, "Start date cannot be after end date.")
		return
	}

	results, err := s.svc.Range(r.Context(), start, end)
	if err != nil {
		zap.L().Warn("server: range lookup failed",
			zap.String("start", start),
			zap.String("end", end),
			zap.Error(err),
		)
		writeError(w, http.StatusNotFound, "No data found for the specified range.")
		return
	}
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "No data found for the specified range.")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeRangeCSV(w, results)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// handleCached serves GET /api/uf/cached: every stored entry, oldest first.
func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.Cached(r.Context())
	if err != nil {
		zap.L().Error("server: cached dump failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if len(results) == 0 {
		// The client keys on "message" here, not "error".
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cache is currently empty."})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

type statsResponse struct {
	Requests       int64   `json:"requests"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	UpstreamErrors int64   `json:"upstream_errors"`
	HitRate        float64 `json:"hit_rate"`
	CacheSize      int     `json:"cache_size"`
}

// handleStats serves GET /api/uf/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	size, err := s.svc.CacheSize(r.Context())
	if err != nil {
		zap.L().Error("server: cache size failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	stats := s.svc.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		Requests:       stats.Hits + stats.Misses,
		Hits:           stats.Hits,
		Misses:         stats.Misses,
		UpstreamErrors: stats.UpstreamErrors,
		HitRate:        stats.HitRate,
		CacheSize:      size,
	})
}

func writeRangeCSV(w http.ResponseWriter, results []rates.Result) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=uf_values.csv`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "value", "cached"})
	for _, res := range results {
		_ = cw.Write([]string{
			res.Date,
			strconv.FormatFloat(res.Value, 'f', -1, 64),
			strconv.FormatBool(res.Cached),
		})
	}
	cw.Flush()
}
