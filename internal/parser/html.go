package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/sectionrank/sectionrank/internal/doctree"
	"github.com/sectionrank/sectionrank/internal/segment"
)

// HTMLParser segments HTML files: h1-h6 elements open sections, paragraph-like
// elements feed the current section's body.
type HTMLParser struct {
	Segment segment.Config
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isHeading(n.Data) {
				flush()
				title = segment.Normalize(textContent(n))
				open = title != ""
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				if !open {
					return
				}
				if t := segment.Normalize(textContent(n)); t != "" {
					body.WriteString(t)
					body.WriteString(" ")
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if b := findElement(root, "body"); b != nil {
		walk(b)
	} else {
		walk(root)
	}
	flush()

	return &doctree.Document{Name: filename, Sections: sections}, nil
}

func isHeading(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if e := findElement(c, tag); e != nil {
			return e
		}
	}
	return nil
}
