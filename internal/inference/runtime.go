// Package inference provides the model adapters behind the ranking pipeline
// and a process-wide runtime that initializes them at most once.
package inference

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sectionrank/sectionrank/internal/config"
	"github.com/sectionrank/sectionrank/internal/ranker"
)

// Runtime holds the shared model adapters. They are expensive to construct
// and read-only afterward, so initialization happens at most once even under
// concurrent first use; every collection processed in the same process reuses
// them. A failed initialization is not retried: the same error is returned on
// every subsequent call.
type Runtime struct {
	cfg config.Config
	log *slog.Logger

	once     sync.Once
	embedder ranker.Embedder
	scorer   ranker.PairScorer
	initErr  error
}

func NewRuntime(cfg config.Config, log *slog.Logger) *Runtime {
	return &Runtime{cfg: cfg, log: log}
}

// Embedder returns the shared embedding adapter, initializing on first use.
func (r *Runtime) Embedder(ctx context.Context) (ranker.Embedder, error) {
	r.init(ctx)
	if r.initErr != nil {
		return nil, r.initErr
	}
	return r.embedder, nil
}

// PairScorer returns the optional re-ranking adapter. A nil adapter with nil
// error means re-ranking is not configured and the pipeline runs
// retrieval-only.
func (r *Runtime) PairScorer(ctx context.Context) (ranker.PairScorer, error) {
	r.init(ctx)
	if r.initErr != nil {
		return nil, r.initErr
	}
	return r.scorer, nil
}

// Close releases adapter resources. Safe to call before first use.
func (r *Runtime) Close() error {
	if c, ok := r.embedder.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Runtime) init(ctx context.Context) {
	r.once.Do(func() {
		switch r.cfg.Embedder {
		case config.EmbedderOllama:
			r.embedder = NewOllamaEmbedder(r.cfg.OllamaURL, r.cfg.OllamaModel)
		case config.EmbedderGemini:
			emb, err := NewGeminiEmbedder(ctx, r.cfg.GeminiAPIKey, r.cfg.GeminiModel)
			if err != nil {
				r.initErr = fmt.Errorf("init gemini embedder: %w", err)
				return
			}
			r.embedder = emb
		default:
			r.initErr = fmt.Errorf("unknown embedder %q", r.cfg.Embedder)
			return
		}

		if r.cfg.RerankerURL != "" {
			r.scorer = NewHTTPPairScorer(r.cfg.RerankerURL, r.cfg.RerankerModel)
		}

		r.log.Info("inference runtime initialized",
			"embedder", r.cfg.Embedder,
			"reranker", r.scorer != nil,
		)
	})
}
