package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sectionrank/sectionrank/internal/config"
	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/inference"
	"github.com/sectionrank/sectionrank/internal/parser"
	"github.com/sectionrank/sectionrank/internal/ranker"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// Runner processes collections against the shared inference runtime.
type Runner struct {
	cfg config.Config
	rt  *inference.Runtime
	log *slog.Logger
}

func NewRunner(cfg config.Config, rt *inference.Runtime, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, rt: rt, log: log}
}

// SegmentConfig maps the service configuration onto segmentation settings.
func (r *Runner) SegmentConfig() segment.Config {
	cfg := segment.DefaultConfig()
	if r.cfg.HeaderSizeRatio > 0 {
		cfg.HeaderSizeRatio = r.cfg.HeaderSizeRatio
	}
	if r.cfg.MinChunkLength > 0 {
		cfg.MinChunkLength = r.cfg.MinChunkLength
	}
	return cfg
}

// Process runs one collection end to end: load its query, parse every
// supported document, rank, and write the output report. Per-file parse
// failures are logged and skipped; a bad query record fails only this
// collection.
func (r *Runner) Process(ctx context.Context, dir string) (Report, error) {
	q, err := LoadQuery(filepath.Join(dir, QueryFileName))
	if err != nil {
		return Report{}, fmt.Errorf("load query: %w", err)
	}

	docs, names := r.parseDocuments(dir)
	r.log.Info("collection parsed",
		"collection", filepath.Base(dir),
		"documents", len(docs),
	)

	report, err := r.Rank(ctx, q, docs, names)
	if err != nil {
		return Report{}, err
	}

	if err := r.writeReport(dir, report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// Rank scores already-parsed documents against a query record and builds the
// output report. Shared by the batch runner and the HTTP API.
func (r *Runner) Rank(ctx context.Context, q QueryRecord, docs []doctree.Document, names []string) (Report, error) {
	embedder, err := r.rt.Embedder(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("inference runtime: %w", err)
	}
	scorer, err := r.rt.PairScorer(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("inference runtime: %w", err)
	}

	query := ranker.BuildQuery(q.Persona.Role, q.Job.Description, q.Job.Task)
	pipe := ranker.New(embedder, scorer, r.cfg.TopKCandidates, r.log)
	sections, subs, err := pipe.Rank(ctx, query, docs)
	if err != nil {
		return Report{}, fmt.Errorf("rank: %w", err)
	}

	return BuildReport(q, names, sections, subs, r.cfg.TopSections, r.cfg.TopSubSections), nil
}

// parseDocuments walks the collection directory and parses every supported
// file. A file that fails to parse is skipped; partial extraction beats none.
func (r *Runner) parseDocuments(dir string) ([]doctree.Document, []string) {
	segCfg := r.SegmentConfig()

	var docs []doctree.Document
	var names []string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == QueryFileName || !parser.IsSupportedExtension(name) {
			return nil
		}

		p, err := parser.ForFile(name, segCfg)
		if err != nil {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			r.log.Warn("skipping unreadable document", "file", name, "error", err)
			return nil
		}
		defer f.Close()

		doc, err := p.Parse(f, name)
		if err != nil {
			r.log.Warn("skipping unparsable document", "file", name, "error", err)
			return nil
		}
		r.log.Info("parsed document", "file", name, "sections", len(doc.Sections), "chunks", doc.ChunkCount())
		docs = append(docs, *doc)
		names = append(names, name)
		return nil
	})
	return docs, names
}

func (r *Runner) writeReport(dir string, report Report) error {
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	out := filepath.Join(r.cfg.OutputDir, fmt.Sprintf("output_%s.json", filepath.Base(dir)))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	r.log.Info("report written", "path", out)
	return nil
}
