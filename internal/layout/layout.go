// Package layout reconstructs page layout from PDF character output.
// The PDF library emits individual positioned characters; this package groups
// them back into spans (one font/size run on one line), lines, and blocks so
// the segmenter can reason about document structure.
package layout

import "strings"

// Span is a run of text sharing one font and size on one line.
type Span struct {
	Text string
	Font string
	Size float64
}

// Line is an ordered sequence of spans at the same vertical position.
type Line struct {
	Spans []Span
}

// Block is a group of vertically adjacent lines.
type Block struct {
	Lines []Line
}

// Page is one PDF page as an ordered sequence of text blocks.
// Numbers are 1-based and monotonically increasing.
type Page struct {
	Number int
	Blocks []Block
}

// FirstSpan returns the first span of the block, which carries the font
// signal used for header classification.
func (b Block) FirstSpan() (Span, bool) {
	for _, line := range b.Lines {
		if len(line.Spans) > 0 {
			return line.Spans[0], true
		}
	}
	return Span{}, false
}

// Text concatenates every span of the block, space-separated.
func (b Block) Text() string {
	var parts []string
	for _, line := range b.Lines {
		for _, s := range line.Spans {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}
