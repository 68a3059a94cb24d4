package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// MarkdownParser segments Markdown files using goldmark. Every heading starts
// a new section regardless of level; text before the first heading is dropped,
// matching the PDF segmenter's behavior.
type MarkdownParser struct {
	Segment segment.Config
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var sections []doctree.Section
	var title string
	var body strings.Builder
	open := false

	flush := func() {
		if open {
			sections = append(sections, segment.Build(title, 1, body.String(), p.Segment))
		}
		body.Reset()
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			title = segment.Normalize(string(h.Text(src)))
			open = title != ""
			continue
		}
		if !open {
			continue
		}
		if t := segment.Normalize(extractText(n, src)); t != "" {
			body.WriteString(t)
			body.WriteString(" ")
		}
	}
	flush()

	return &doctree.Document{Name: filename, Sections: sections}, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
