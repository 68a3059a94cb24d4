// Package segment turns page layout into titled sections using page-local
// font statistics. Headers open sections, body blocks accumulate into them,
// and text before the first header on a page is dropped.
package segment

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/layout"
)

// Config controls segmentation behavior.
type Config struct {
	HeaderSizeRatio  float64 // Header if span size > page median * ratio.
	MaxHeaderWords   int     // Spans longer than this are never headers.
	MinChunkLength   int     // Minimum characters for a section body to become a chunk.
	FallbackFontSize float64 // Median stand-in for pages with no measurable spans.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HeaderSizeRatio:  1.15,
		MaxHeaderWords:   12,
		MinChunkLength:   5,
		FallbackFontSize: 12.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HeaderSizeRatio <= 0 {
		c.HeaderSizeRatio = d.HeaderSizeRatio
	}
	if c.MaxHeaderWords <= 0 {
		c.MaxHeaderWords = d.MaxHeaderWords
	}
	if c.MinChunkLength <= 0 {
		c.MinChunkLength = d.MinChunkLength
	}
	if c.FallbackFontSize <= 0 {
		c.FallbackFontSize = d.FallbackFontSize
	}
	return c
}

// IsHeader decides whether a span begins a new section, judged against the
// page's median font size. Stateless and page-local: a short bold emphasis in
// body text can be misclassified, which is the accepted trade-off of the
// heuristic.
func IsHeader(span layout.Span, pageMedianSize float64, cfg Config) bool {
	cfg = cfg.withDefaults()
	text := strings.TrimSpace(span.Text)
	if text == "" {
		return false
	}
	if len(strings.Fields(text)) > cfg.MaxHeaderWords {
		return false
	}
	if strings.Contains(strings.ToLower(span.Font), "bold") {
		return true
	}
	return span.Size > pageMedianSize*cfg.HeaderSizeRatio
}

// rawSection accumulates body text until its section is closed.
type rawSection struct {
	title string
	page  int
	body  strings.Builder
}

// Pages segments a document's pages into an ordered list of sections.
// Pages are processed in order; the section cursor resets at each page start,
// so a section never spans a page boundary.
func Pages(pages []layout.Page, cfg Config) []doctree.Section {
	cfg = cfg.withDefaults()
	var raw []*rawSection
	for _, page := range pages {
		raw = append(raw, segmentPage(page, cfg)...)
	}

	sections := make([]doctree.Section, 0, len(raw))
	for _, r := range raw {
		sections = append(sections, Build(r.title, r.page, r.body.String(), cfg))
	}
	return sections
}

// Build assembles a section from a title and accumulated body text. The body
// becomes a single chunk only when its trimmed length exceeds the minimum;
// otherwise the section stays title-only.
func Build(title string, page int, body string, cfg Config) doctree.Section {
	cfg = cfg.withDefaults()
	sec := doctree.Section{Title: title, Page: page}
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > cfg.MinChunkLength {
		sec.Chunks = []doctree.Chunk{{Text: body, Page: page, SectionTitle: title}}
	}
	return sec
}

func segmentPage(page layout.Page, cfg Config) []*rawSection {
	median := medianFontSize(page, cfg.FallbackFontSize)

	var out []*rawSection
	var current *rawSection
	for _, block := range page.Blocks {
		first, ok := block.FirstSpan()
		if !ok {
			continue
		}
		text := Normalize(block.Text())
		if text == "" {
			continue
		}

		switch {
		case IsHeader(first, median, cfg):
			if current != nil {
				out = append(out, current)
			}
			current = &rawSection{title: text, page: page.Number}
		case current != nil:
			current.body.WriteString(text)
			current.body.WriteString(" ")
		}
		// Body text before the first header on a page is dropped.
	}
	if current != nil {
		out = append(out, current)
	}
	return out
}

// medianFontSize computes the median size over all non-empty spans on the
// page, falling back to a constant when nothing is measurable.
func medianFontSize(page layout.Page, fallback float64) float64 {
	var sizes []float64
	for _, block := range page.Blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				if strings.TrimSpace(span.Text) != "" {
					sizes = append(sizes, span.Size)
				}
			}
		}
	}
	if len(sizes) == 0 {
		return fallback
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 0 {
		return (sizes[mid-1] + sizes[mid]) / 2
	}
	return sizes[mid]
}
