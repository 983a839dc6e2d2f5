package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1ou/danton/internal/index"
	"github.com/1ou/danton/internal/search"
	"github.com/1ou/danton/internal/tokenizer"
	"github.com/1ou/danton/pkg/metrics"
)

// Rebuilder constructs a fresh segment from the document source and swaps
// it into the query engine. Builds are serialised by a mutex, so the
// single-writer build phase is never interleaved; queries keep reading the
// previous frozen segment until the swap.
type Rebuilder struct {
	source   DocumentSource
	engine   *search.Engine
	tok      tokenizer.Tokenizer
	metrics  *metrics.Metrics
	debounce time.Duration

	buildMu sync.Mutex
	timerMu sync.Mutex
	timer   *time.Timer

	logger *slog.Logger
}

// NewRebuilder creates a Rebuilder. metrics may be nil (offline tools).
func NewRebuilder(source DocumentSource, engine *search.Engine, tok tokenizer.Tokenizer, m *metrics.Metrics, debounce time.Duration) *Rebuilder {
	return &Rebuilder{
		source:   source,
		engine:   engine,
		tok:      tok,
		metrics:  m,
		debounce: debounce,
		logger:   slog.Default().With("component", "rebuilder"),
	}
}

// Rebuild loads the collection, builds a segment, and swaps it live.
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	start := time.Now()
	docs, err := r.source.Load(ctx)
	if err != nil {
		r.observe("error", nil, start)
		return fmt.Errorf("loading documents: %w", err)
	}

	seg, err := index.Build(docs, r.tok)
	if err != nil {
		r.observe("error", nil, start)
		return fmt.Errorf("building segment: %w", err)
	}

	r.engine.Swap(seg)
	r.observe("success", seg, start)
	r.logger.Info("segment rebuilt",
		"docs", seg.DocCount(),
		"terms", seg.TermCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Schedule requests a rebuild after the debounce window, coalescing bursts
// of ingest events into a single build.
func (r *Rebuilder) Schedule() {
	if r.debounce <= 0 {
		go func() {
			if err := r.Rebuild(context.Background()); err != nil {
				r.logger.Error("scheduled rebuild failed", "error", err)
			}
		}()
		return
	}
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.timer != nil {
		r.timer.Reset(r.debounce)
		return
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		if err := r.Rebuild(context.Background()); err != nil {
			r.logger.Error("scheduled rebuild failed", "error", err)
		}
	})
}

func (r *Rebuilder) observe(status string, seg *index.Segment, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.RebuildsTotal.WithLabelValues(status).Inc()
	r.metrics.RebuildDuration.Observe(time.Since(start).Seconds())
	if seg != nil {
		r.metrics.DocsIndexedTotal.Add(float64(seg.DocCount()))
		r.metrics.SegmentDocuments.Set(float64(seg.DocCount()))
		r.metrics.SegmentTerms.Set(float64(seg.TermCount()))
	}
}
