// Package server exposes the search engine over HTTP: the search endpoint,
// document intake, manual rebuilds, and the Redis-backed query cache.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/ingest"
	"github.com/1ou/danton/internal/search"
	apperrors "github.com/1ou/danton/pkg/errors"
	"github.com/1ou/danton/pkg/kafka"
	"github.com/1ou/danton/pkg/logger"
	"github.com/1ou/danton/pkg/metrics"
)

// Handler serves the search and document APIs. cache and producer are
// optional; without them queries run uncached and intake falls back to
// scheduling rebuilds directly.
type Handler struct {
	engine       *search.Engine
	cache        *QueryCache
	source       *ingest.PostgresSource
	rebuilder    *ingest.Rebuilder
	producer     *kafka.Producer
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New creates a Handler.
func New(
	engine *search.Engine,
	cache *QueryCache,
	source *ingest.PostgresSource,
	rebuilder *ingest.Rebuilder,
	producer *kafka.Producer,
	m *metrics.Metrics,
	defaultLimit, maxResults int,
) *Handler {
	return &Handler{
		engine:       engine,
		cache:        cache,
		source:       source,
		rebuilder:    rebuilder,
		producer:     producer,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Register attaches the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("POST /api/v1/documents", h.AddDocument)
	mux.HandleFunc("POST /api/v1/rebuild", h.Rebuild)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
}

// Search answers GET /api/v1/search?q=...&k=... An empty or unsatisfiable
// query returns 200 with no results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	k := h.defaultLimit
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		if parsed > h.maxResults {
			parsed = h.maxResults
		}
		k = parsed
	}

	var result *search.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, query, k, func() (*search.Result, error) {
			return h.engine.Search(ctx, query, k)
		})
	} else {
		result, err = h.engine.Search(ctx, query, k)
	}
	if err != nil {
		h.observeQuery("error", nil, cacheHit, start)
		switch {
		case errors.Is(err, apperrors.ErrIndexNotFound):
			h.writeError(w, http.StatusServiceUnavailable, "index not ready")
		case errors.Is(err, search.ErrStepBudgetExceeded):
			h.writeError(w, http.StatusGatewayTimeout, "query exceeded step budget")
		default:
			log.Error("search execution failed", "query", query, "error", err)
			h.writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	resultType := "hit"
	if len(result.Results) == 0 {
		resultType = "zero_result"
	}
	h.observeQuery(resultType, result, cacheHit, start)
	log.Info("search completed",
		"query", query,
		"total_hits", result.TotalHits,
		"returned", len(result.Results),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, result)
}

// AddDocument answers POST /api/v1/documents. The document is stored in
// Postgres and a DocumentAccepted event is published; the consumer folds it
// into the next rebuild.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var doc index.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid document payload")
		return
	}
	if err := h.source.Insert(ctx, doc); err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error("document insert failed", "doc_id", doc.ID, "error", err)
			h.writeError(w, status, "storing document failed")
			return
		}
		h.writeError(w, status, err.Error())
		return
	}

	if h.producer != nil {
		event := ingest.DocumentAccepted{
			DocumentID: doc.ID,
			AcceptedAt: time.Now().UTC(),
		}
		if err := h.producer.Publish(ctx, kafka.Event{
			Key:   strconv.FormatInt(doc.ID, 10),
			Value: event,
		}); err != nil {
			log.Error("publishing accepted event failed, scheduling rebuild directly",
				"doc_id", doc.ID,
				"error", err,
			)
			h.rebuilder.Schedule()
		}
	} else {
		h.rebuilder.Schedule()
	}

	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"id":     doc.ID,
	})
}

// Rebuild answers POST /api/v1/rebuild with a synchronous rebuild.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.rebuilder.Rebuild(ctx); err != nil {
		logger.FromContext(ctx).Error("manual rebuild failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "rebuild failed")
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Error("cache invalidation failed", "error", err)
		}
	}
	seg := h.engine.Segment()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status": "rebuilt",
		"docs":   seg.DocCount(),
		"terms":  seg.TermCount(),
	})
}

// CacheStats answers GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]int64{
		"hits":   hits,
		"misses": misses,
	})
}

func (h *Handler) observeQuery(resultType string, result *search.Result, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	if result != nil {
		h.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
	}
	if h.cache != nil {
		if cacheHit {
			h.metrics.CacheHitsTotal.Inc()
		} else {
			h.metrics.CacheMissesTotal.Inc()
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
