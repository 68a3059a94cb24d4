package inference

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sectionrank/sectionrank/internal/config"
)

func TestOllamaEmbedder_Encode(t *testing.T) {
	var requests []ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		requests = append(requests, req)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "test-model")
	vecs, err := e.Encode(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 2 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
	if len(requests) != 2 || requests[0].Prompt != "one" || requests[1].Prompt != "two" {
		t.Errorf("unexpected requests: %+v", requests)
	}
	if requests[0].Model != "test-model" {
		t.Errorf("expected model test-model, got %s", requests[0].Model)
	}
}

func TestOllamaEmbedder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "missing")
	if _, err := e.Encode(context.Background(), []string{"x"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestHTTPPairScorer_ScoreMapsIndices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/rerank" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req rerankRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Query != "q" || len(req.Documents) != 3 {
			t.Errorf("unexpected request: %+v", req)
		}
		// Results arrive sorted by relevance, not input order.
		io.WriteString(w, `{"results":[
			{"index":2,"relevance_score":0.9},
			{"index":0,"relevance_score":0.5},
			{"index":1,"relevance_score":0.1}
		]}`)
	}))
	defer srv.Close()

	s := NewHTTPPairScorer(srv.URL, "m")
	scores, err := s.Score(context.Background(), "q", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{0.5, 0.1, 0.9}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("score[%d] = %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestHTTPPairScorer_OutOfRangeIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[{"index":5,"relevance_score":0.9}]}`)
	}))
	defer srv.Close()

	s := NewHTTPPairScorer(srv.URL, "m")
	if _, err := s.Score(context.Background(), "q", []string{"a"}); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuntime_InitOnce(t *testing.T) {
	cfg := config.Load()
	cfg.Embedder = config.EmbedderOllama
	cfg.RerankerURL = "http://localhost:9999"
	rt := NewRuntime(cfg, discardLogger())

	ctx := context.Background()
	e1, err := rt.Embedder(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e2, _ := rt.Embedder(ctx)
	if e1 != e2 {
		t.Error("expected the same embedder instance on repeated calls")
	}
	sc, err := rt.PairScorer(ctx)
	if err != nil || sc == nil {
		t.Errorf("expected configured pair scorer, got %v err %v", sc, err)
	}
}

func TestRuntime_InitFailureSticks(t *testing.T) {
	cfg := config.Load()
	cfg.Embedder = "bogus"
	rt := NewRuntime(cfg, discardLogger())

	ctx := context.Background()
	_, err1 := rt.Embedder(ctx)
	if err1 == nil {
		t.Fatal("expected init error for unknown embedder")
	}
	// A failed initialization is never retried.
	_, err2 := rt.PairScorer(ctx)
	if err2 == nil || err2.Error() != err1.Error() {
		t.Errorf("expected the same sticky error, got %v then %v", err1, err2)
	}
}

func TestRuntime_ConcurrentFirstUse(t *testing.T) {
	cfg := config.Load()
	rt := NewRuntime(cfg, discardLogger())

	var wg sync.WaitGroup
	embedders := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := rt.Embedder(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			embedders[i] = e
		}(i)
	}
	wg.Wait()

	for i := 1; i < 8; i++ {
		if embedders[i] != embedders[0] {
			t.Fatal("concurrent first use produced different adapter instances")
		}
	}
}
