package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sectionrank/sectionrank/internal/collection"
	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/parser"
)

// handleRank accepts a multipart form holding the query and the documents to
// rank against it. The query arrives either as a "query" part carrying the
// same JSON record a collection's query.json uses, or as separate "persona"
// and "job" form values. Documents go under the "documents" field.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	q, err := s.queryFromRequest(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["documents"]
	if len(files) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}

	segCfg := s.runner.SegmentConfig()
	var docs []doctree.Document
	var names []string
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		p, err := parser.ForFile(filename, segCfg)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+filename, http.StatusBadRequest)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}

		doc, err := p.Parse(bytes.NewReader(data), filename)
		if err != nil {
			jsonError(w, fmt.Sprintf("failed to parse %s: %v", filename, err), http.StatusUnprocessableEntity)
			return
		}
		docs = append(docs, *doc)
		names = append(names, filename)
	}

	report, err := s.runner.Rank(r.Context(), q, docs, names)
	if err != nil {
		s.log.Error("rank request failed", "error", err)
		jsonError(w, "ranking failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) queryFromRequest(r *http.Request) (collection.QueryRecord, error) {
	if parts := r.MultipartForm.File["query"]; len(parts) > 0 {
		f, err := parts[0].Open()
		if err != nil {
			return collection.QueryRecord{}, fmt.Errorf("failed to open query part")
		}
		defer f.Close()
		var q collection.QueryRecord
		if err := json.NewDecoder(f).Decode(&q); err != nil {
			return collection.QueryRecord{}, fmt.Errorf("invalid query record: %v", err)
		}
		return q, nil
	}

	persona := r.FormValue("persona")
	job := r.FormValue("job")
	if persona == "" && job == "" {
		return collection.QueryRecord{}, fmt.Errorf("a query part or persona/job form values are required")
	}
	return collection.QueryRecord{
		Persona: collection.Persona{Role: persona},
		Job:     collection.Job{Task: job},
	}, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
