package layout

import (
	"fmt"
	"io"
	"math"
	"sort"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	// rowTolerance is the Y distance within which characters belong to one line.
	rowTolerance = 3.0
	// wordSpaceRatio: an X gap wider than this fraction of the font size
	// separates two words.
	wordSpaceRatio = 0.3
	// blockGapRatio: a vertical gap wider than this fraction of the font size
	// starts a new block.
	blockGapRatio = 1.6
)

// ExtractFile reads a PDF from disk and reconstructs its page layout.
func ExtractFile(path string) ([]Page, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return extract(reader), nil
}

// Extract reads a PDF from an in-memory reader.
func Extract(r io.ReaderAt, size int64) ([]Page, error) {
	reader, err := pdflib.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return extract(reader), nil
}

func extract(reader *pdflib.Reader) []Page {
	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		blocks := BuildBlocks(p.Content().Text)
		if len(blocks) == 0 {
			continue
		}
		pages = append(pages, Page{Number: i, Blocks: blocks})
	}
	return pages
}

// BuildBlocks groups raw character output into lines and blocks. Characters
// are bucketed into rows by Y coordinate, rows are split into spans wherever
// the font or size changes, and consecutive rows close in Y form one block.
func BuildBlocks(chars []pdflib.Text) []Block {
	rows := groupRows(chars)
	if len(rows) == 0 {
		return nil
	}

	var blocks []Block
	current := Block{Lines: []Line{buildLine(rows[0])}}
	for i := 1; i < len(rows); i++ {
		size := rows[i][0].FontSize
		if size <= 0 {
			size = 12
		}
		gap := rows[i-1][0].Y - rows[i][0].Y
		if gap > size*blockGapRatio {
			blocks = append(blocks, current)
			current = Block{}
		}
		current.Lines = append(current.Lines, buildLine(rows[i]))
	}
	return append(blocks, current)
}

// groupRows buckets characters into visual rows, top to bottom, left to right.
// PDF Y coordinates grow upward.
func groupRows(chars []pdflib.Text) [][]pdflib.Text {
	var usable []pdflib.Text
	for _, c := range chars {
		if c.S == "" || c.S == "\n" || c.S == "\r" {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return nil
	}

	sort.SliceStable(usable, func(i, j int) bool {
		if math.Abs(usable[i].Y-usable[j].Y) > rowTolerance {
			return usable[i].Y > usable[j].Y
		}
		return usable[i].X < usable[j].X
	})

	var rows [][]pdflib.Text
	row := []pdflib.Text{usable[0]}
	for _, c := range usable[1:] {
		if math.Abs(c.Y-row[0].Y) > rowTolerance {
			rows = append(rows, row)
			row = nil
		}
		row = append(row, c)
	}
	return append(rows, row)
}

// buildLine merges one row of characters into spans, breaking on font or size
// changes and inserting spaces at word-sized horizontal gaps.
func buildLine(row []pdflib.Text) Line {
	var line Line
	span := Span{Font: row[0].Font, Size: row[0].FontSize, Text: row[0].S}
	lastEnd := row[0].X + row[0].W
	for _, c := range row[1:] {
		if c.Font != span.Font || c.FontSize != span.Size {
			line.Spans = append(line.Spans, span)
			span = Span{Font: c.Font, Size: c.FontSize}
		} else if c.X-lastEnd > wordSpaceRatio*c.FontSize {
			span.Text += " "
		}
		span.Text += c.S
		lastEnd = c.X + c.W
	}
	line.Spans = append(line.Spans, span)
	return line
}
