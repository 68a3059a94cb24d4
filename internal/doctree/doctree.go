package doctree

// Document is one parsed input file: an ordered list of detected sections.
// Immutable once parsing completes.
type Document struct {
	Name     string
	Sections []Section
}

// Section is a titled region of a document, identified by a detected header.
// It owns at most one chunk; a section whose body never cleared the minimum
// content threshold keeps an empty chunk list.
type Section struct {
	Title  string
	Page   int
	Chunks []Chunk
}

// Chunk is the normalized body text owned by one section, the unit that gets
// scored and surfaced to end users. SectionTitle is a denormalized
// back-reference by title string; chunks never hold a pointer to their section.
type Chunk struct {
	Text         string
	Page         int
	SectionTitle string
}

// ChunkCount returns the number of chunks across all sections.
func (d *Document) ChunkCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Chunks)
	}
	return n
}
