package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"AssetTracker/internal/cache"
	"AssetTracker/internal/calculator"
	"AssetTracker/internal/model"
	"AssetTracker/internal/recorder"

	"github.com/gorilla/mux"
)

// Metrics resolves summary tiles; it never fails.
type Metrics interface {
	AllMetrics(ctx context.Context) []model.Metrics
	MetricsFor(ctx context.Context, names []string) []model.Metrics
}

// Server exposes the tracker over HTTP.
type Server struct {
	Tables   cache.Joiner
	Metrics  Metrics
	Registry *model.Registry
	Recorder recorder.Recorder
	Period   model.Period
	Timeout  time.Duration
	Now      func() time.Time
}

// Handler builds the routed, wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/assets", s.handleAssets).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	api.HandleFunc("/metrics/{asset}", s.handleAssetMetrics).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/ratio", s.handleRatio).Methods(http.MethodGet)
	api.HandleFunc("/refreshes", s.handleRefreshes).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return withJSONHeaders(withCompression(recoverPanic(router)))
}

func (s *Server) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Server) context(r *http.Request) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.Timeout)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assetsResponse{
		Assets:        s.Registry.Assets(),
		Periods:       model.Periods,
		DefaultPeriod: s.Period,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.context(r)
	defer cancel()
	writeJSON(w, http.StatusOK, s.Metrics.AllMetrics(ctx))
}

func (s *Server) handleAssetMetrics(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["asset"]
	if _, ok := s.Registry.Lookup(name); !ok {
		writeError(w, http.StatusNotFound, "unknown asset "+strconv.Quote(name))
		return
	}
	ctx, cancel := s.context(r)
	defer cancel()
	writeJSON(w, http.StatusOK, s.Metrics.MetricsFor(ctx, []string{name})[0])
}

func (s *Server) period(r *http.Request) (model.Period, error) {
	v := r.URL.Query().Get("period")
	if v == "" {
		return s.Period, nil
	}
	return model.ParsePeriod(v)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := s.period(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	assets := splitCSV(q.Get("assets"))
	if len(assets) == 0 {
		assets = s.Registry.Names()
	}
	normalize, _ := strconv.ParseBool(q.Get("normalize"))

	ctx, cancel := s.context(r)
	defer cancel()
	table, err := s.Tables.JoinAssets(ctx, assets, period)
	if err != nil {
		log.Printf("[ERROR] history %v %s: %v", assets, period, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if normalize {
		table = calculator.Normalize(table)
	}
	if q.Get("order") == "desc" {
		table = table.Descending()
	}
	writeJSON(w, http.StatusOK, newHistoryResponse(period, table, normalize, s.now()))
}

func (s *Server) handleRatio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := s.period(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	num, den := strings.TrimSpace(q.Get("num")), strings.TrimSpace(q.Get("den"))
	if num == "" || den == "" {
		writeError(w, http.StatusBadRequest, "num and den are required")
		return
	}
	if swap, _ := strconv.ParseBool(q.Get("swap")); swap {
		num, den = den, num
	}
	if num == den {
		writeError(w, http.StatusUnprocessableEntity, calculator.ErrSameAsset.Error())
		return
	}

	ctx, cancel := s.context(r)
	defer cancel()
	table, err := s.Tables.JoinAssets(ctx, []string{num, den}, period)
	if err != nil {
		log.Printf("[ERROR] ratio %s/%s %s: %v", num, den, period, err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	series, summary, err := calculator.Analyze(table, num, den)
	if errors.Is(err, calculator.ErrSameAsset) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newRatioResponse(period, series, summary))
}

func (s *Server) handleRefreshes(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	events, err := s.Recorder.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]refreshDTO, len(events))
	for i, evt := range events {
		out[i] = newRefreshDTO(evt)
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
