package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPPairScorer implements ranker.PairScorer against a rerank service
// exposing the common /v1/rerank contract (query + documents in, indexed
// relevance scores out).
type HTTPPairScorer struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewHTTPPairScorer(baseURL, model string) *HTTPPairScorer {
	return &HTTPPairScorer{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float32 `json:"relevance_score"`
	} `json:"results"`
}

// Score sends one batched rerank request and maps the indexed results back
// into input order.
func (s *HTTPPairScorer) Score(ctx context.Context, query string, candidates []string) ([]float32, error) {
	body, err := json.Marshal(rerankRequest{
		Model:     s.model,
		Query:     query,
		Documents: candidates,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling reranker: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reranker returned status %d", resp.StatusCode)
	}

	var rr rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	scores := make([]float32, len(candidates))
	for _, res := range rr.Results {
		if res.Index < 0 || res.Index >= len(candidates) {
			return nil, fmt.Errorf("reranker returned out-of-range index %d", res.Index)
		}
		scores[res.Index] = res.RelevanceScore
	}
	return scores, nil
}
