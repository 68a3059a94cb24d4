// Package ranker scores document chunks against a persona-driven query using
// a two-stage retrieve-then-re-rank strategy and aggregates chunk scores into
// section rankings.
package ranker

import "context"

// Embedder turns a batch of texts into fixed-length vectors, one vector per
// input text, order-preserving. Deterministic for a fixed model.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// PairScorer scores (query, candidate) pairs jointly. More accurate than
// embedding similarity but far costlier per comparison, so it only ever sees
// the truncated candidate set. Higher scores mean more relevant.
type PairScorer interface {
	Score(ctx context.Context, query string, candidates []string) ([]float32, error)
}

// ScoredChunk is a flattened candidate: one chunk annotated with its owning
// document and section, carrying its pipeline score.
type ScoredChunk struct {
	Document string
	Section  string
	Text     string
	Page     int
	Score    float32
}

// RankedSection is a section-level result aggregated from chunk scores.
type RankedSection struct {
	Document string
	Title    string
	Page     int
	Score    float32
}
