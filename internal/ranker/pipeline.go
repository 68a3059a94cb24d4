package ranker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/sectionrank/sectionrank/internal/doctree"
)

// DefaultTopK bounds how many stage-1 candidates reach the pair scorer.
// Pairwise scoring is far more expensive than embedding similarity, so the
// candidate set is truncated before it: a chunk outside the top K can never
// reach the final ranking, an accepted approximation.
const DefaultTopK = 75

// Pipeline runs the two-stage ranking. A nil PairScorer disables stage 2 and
// the pipeline ranks on embedding similarity alone.
type Pipeline struct {
	embedder Embedder
	scorer   PairScorer
	topK     int
	log      *slog.Logger
}

// New creates a ranking pipeline. scorer may be nil for retrieval-only mode.
func New(embedder Embedder, scorer PairScorer, topK int, log *slog.Logger) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		embedder: embedder,
		scorer:   scorer,
		topK:     topK,
		log:      log,
	}
}

// Rank scores every chunk across the given documents against the query and
// returns section-level and chunk-level rankings, both sorted by score
// descending with ties keeping input order. With no candidate chunks it
// returns empty results without touching the model adapters.
func (p *Pipeline) Rank(ctx context.Context, query string, docs []doctree.Document) ([]RankedSection, []ScoredChunk, error) {
	candidates := flatten(docs)
	if len(candidates) == 0 {
		return []RankedSection{}, []ScoredChunk{}, nil
	}

	// Stage 1: embed the query and every candidate once, score by cosine
	// similarity. The scoring text is enriched with the section title.
	qvec, err := p.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, nil, fmt.Errorf("encode query: %w", err)
	}
	if len(qvec) != 1 {
		return nil, nil, fmt.Errorf("encode query: got %d vectors for 1 input", len(qvec))
	}

	texts := scoringTexts(candidates)
	cvecs, err := p.embedder.Encode(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("encode candidates: %w", err)
	}
	if len(cvecs) != len(texts) {
		return nil, nil, fmt.Errorf("encode candidates: got %d vectors for %d inputs", len(cvecs), len(texts))
	}

	for i := range candidates {
		candidates[i].Score = float32(cosine(qvec[0], cvecs[i]))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	p.log.Debug("retrieval stage complete", "candidates", len(candidates))

	scored := candidates
	if p.scorer != nil {
		// Stage 2: pairwise re-scoring of the truncated set. The pair score
		// overwrites the retrieval score for final ordering.
		if len(scored) > p.topK {
			scored = scored[:p.topK]
		}
		pairScores, err := p.scorer.Score(ctx, query, scoringTexts(scored))
		if err != nil {
			return nil, nil, fmt.Errorf("pair scoring: %w", err)
		}
		if len(pairScores) != len(scored) {
			return nil, nil, fmt.Errorf("pair scoring: got %d scores for %d candidates", len(pairScores), len(scored))
		}
		for i := range scored {
			scored[i].Score = pairScores[i]
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
		p.log.Debug("re-ranking stage complete", "candidates", len(scored))
	}

	return aggregateSections(scored), scored, nil
}

// flatten gathers every chunk across all documents into one candidate list,
// annotated with owning document and section title.
func flatten(docs []doctree.Document) []ScoredChunk {
	var out []ScoredChunk
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			for _, ch := range sec.Chunks {
				out = append(out, ScoredChunk{
					Document: doc.Name,
					Section:  ch.SectionTitle,
					Text:     ch.Text,
					Page:     ch.Page,
				})
			}
		}
	}
	return out
}

func scoringTexts(chunks []ScoredChunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Section + ": " + c.Text
	}
	return texts
}

// aggregateSections assigns each section the maximum final score among its
// scored chunks, keyed by (document, title) since chunks reference their
// section by title only. Chunks dropped at truncation contribute nothing, so
// an unscored chunk can never raise its section above one that was scored.
func aggregateSections(scored []ScoredChunk) []RankedSection {
	type key struct{ doc, title string }
	index := make(map[key]int)
	out := make([]RankedSection, 0, len(scored))

	for _, c := range scored {
		k := key{c.Document, c.Section}
		if i, ok := index[k]; ok {
			if c.Score > out[i].Score {
				out[i].Score = c.Score
				out[i].Page = c.Page
			}
			continue
		}
		index[k] = len(out)
		out = append(out, RankedSection{
			Document: c.Document,
			Title:    c.Section,
			Page:     c.Page,
			Score:    c.Score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// cosine computes cosine similarity with float64 accumulation. Zero-norm
// vectors score 0.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
