package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sectionrank/sectionrank/internal/collection"
	"github.com/sectionrank/sectionrank/internal/config"
	"github.com/sectionrank/sectionrank/internal/inference"
)

func testServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := collection.NewRunner(cfg, inference.NewRuntime(cfg, log), log)
	return NewServer(runner, log, cfg)
}

func baseConfig() config.Config {
	cfg := config.Load()
	cfg.APIKey = ""
	return cfg
}

func TestHealth(t *testing.T) {
	srv := testServer(t, baseConfig())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRank_RequiresAuthWhenKeySet(t *testing.T) {
	cfg := baseConfig()
	cfg.APIKey = "secret"
	srv := testServer(t, cfg)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rank", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/rank", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
}

func multipartRequest(t *testing.T, persona, job string, docs map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if persona != "" {
		mw.WriteField("persona", persona)
	}
	if job != "" {
		mw.WriteField("job", job)
	}
	for name, content := range docs {
		fw, err := mw.CreateFormFile("documents", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/rank", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRank_MissingQuery(t *testing.T) {
	srv := testServer(t, baseConfig())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartRequest(t, "", "", map[string]string{"a.txt": "hello"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRank_MissingDocuments(t *testing.T) {
	srv := testServer(t, baseConfig())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartRequest(t, "analyst", "review reports", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRank_UnsupportedFileType(t *testing.T) {
	srv := testServer(t, baseConfig())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, multipartRequest(t, "analyst", "review reports", map[string]string{"a.exe": "binary"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRank_EndToEnd(t *testing.T) {
	embed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": []float32{0.1, 0.2, 0.3}})
	}))
	defer embed.Close()

	cfg := baseConfig()
	cfg.OllamaURL = embed.URL
	srv := testServer(t, cfg)

	req := multipartRequest(t, "travel planner", "plan a trip", map[string]string{
		"guide.md": "# Packing\n\nBring layers and comfortable shoes for long walks.\n",
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report collection.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Metadata.Persona != "travel planner" {
		t.Errorf("persona = %q", report.Metadata.Persona)
	}
	if len(report.ExtractedSections) == 0 {
		t.Error("expected at least one ranked section")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"../../etc/passwd": "passwd",
		"report.pdf":       "report.pdf",
		"":                 "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
