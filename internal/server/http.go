package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"spivaDashboard/internal/finance"
	"spivaDashboard/internal/storage"
	"spivaDashboard/internal/view"
)

// DefaultPeriod is shown when a request names none.
const DefaultPeriod = finance.Period1Y

// Deps are the collaborators of the HTTP server. Store and Webhook are optional.
type Deps struct {
	Store    *storage.Store
	Loader   *view.Loader
	Renderer *finance.Renderer
	Webhook  http.HandlerFunc
	Log      zerolog.Logger
}

type handler struct {
	store    *storage.Store
	loader   *view.Loader
	renderer *finance.Renderer
	log      zerolog.Logger
}

// NewRouter mounts the source API, the dashboard API and the optional Telegram webhook.
func NewRouter(d Deps) http.Handler {
	h := &handler{
		store:    d.Store,
		loader:   d.Loader,
		renderer: d.Renderer,
		log:      d.Log.With().Str("component", "http").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/health", h.handleHealth)

	if h.store != nil {
		r.Route("/api", func(r chi.Router) {
			r.Get("/chart-data", h.handleChartData)
			r.Get("/spiva-table", h.handleSpivaTable)
		})
	}

	r.Route("/dashboard", func(r chi.Router) {
		r.Post("/refresh", h.handleRefresh)
		r.Get("/state", h.handleState)
		r.Get("/summary", h.handleSummary)
		r.Get("/series/bar", h.handleBarSeries)
		r.Get("/series/trend", h.handleTrendSeries)
		r.Get("/tables/{table}", h.handleTable)
		r.Get("/export/{table}", h.handleExport)
		r.Get("/charts/bar.png", h.handleBarChart)
		r.Get("/charts/trend.png", h.handleTrendChart)
		r.Get("/fees", h.handleFees)
	})

	if d.Webhook != nil {
		r.Post("/telegram/webhook", d.Webhook)
	}
	return r
}

func ListenAndServe(addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "spiva-dashboard"})
}

func (h *handler) handleChartData(w http.ResponseWriter, _ *http.Request) {
	m, err := h.store.ChartData()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read chart data")
		http.Error(w, "Failed to read chart data", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *handler) handleSpivaTable(w http.ResponseWriter, _ *http.Request) {
	rows, err := h.store.SpivaTable()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read SPIVA table")
		http.Error(w, "Failed to read SPIVA table", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.loader.Load(r.Context()))
}

// handleState is the dashboard's activation call: every hit starts a fresh load.
func (h *handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.loader.Load(r.Context()))
}

func (h *handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	h.loader.Ensure(r.Context())
	s, ok := h.loader.Summary(period(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleBarSeries(w http.ResponseWriter, r *http.Request) {
	h.loader.Ensure(r.Context())
	s, ok := h.loader.Bar(period(r))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *handler) handleTrendSeries(w http.ResponseWriter, r *http.Request) {
	h.loader.Ensure(r.Context())
	h.writeJSON(w, http.StatusOK, h.loader.Trend())
}

func (h *handler) handleTable(w http.ResponseWriter, r *http.Request) {
	t, ok := view.LookupTable(chi.URLParam(r, "table"))
	if !ok {
		http.Error(w, "Unknown table", http.StatusNotFound)
		return
	}
	h.loader.Ensure(r.Context())
	rows := finance.FilterRows(h.loader.Rows(t), t.Columns, r.URL.Query().Get("q"))
	h.writeJSON(w, http.StatusOK, map[string]any{"table": t, "rows": rows})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	t, ok := view.LookupTable(chi.URLParam(r, "table"))
	if !ok {
		http.Error(w, "Unknown table", http.StatusNotFound)
		return
	}
	h.loader.Ensure(r.Context())
	q := r.URL.Query()
	exp, err := h.loader.Export(t, q.Get("q"), q.Get("file"))
	if err != nil {
		h.log.Error().Err(err).Str("table", t.Name).Msg("Failed to export table")
		http.Error(w, "Failed to export table", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Data)
}

func (h *handler) handleBarChart(w http.ResponseWriter, r *http.Request) {
	h.loader.Ensure(r.Context())
	p := period(r)
	s, ok := h.loader.Bar(p)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	img, err := h.renderer.BarPNG(s, "S&P 500 vs Large-Cap Benchmarks")
	h.writePNG(w, img, err)
}

func (h *handler) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	h.loader.Ensure(r.Context())
	img, err := h.renderer.TrendPNG(h.loader.Trend(), "S&P 500 vs Large-Cap Trend")
	h.writePNG(w, img, err)
}

func (h *handler) handleFees(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, finance.DefaultFeeComparison())
}

func (h *handler) writePNG(w http.ResponseWriter, img []byte, err error) {
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render chart")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func period(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get("period")); p != "" {
		return p
	}
	return DefaultPeriod
}
