// Package ingest parses factsheet documents and loads them into the
// vector store as embedded passages.
package ingest

// Section is one titled block of factsheet text.
type Section struct {
	Title string
	Text  string
}

// Document is one parsed factsheet file.
type Document struct {
	Name     string // source file name, kept as passage metadata
	Sections []Section
}

// Chunk is a store-ready slice of a section, bounded by the chunker's
// rune budget.
type Chunk struct {
	Source  string // document name
	Section string // section title, may be empty
	Content string
	Index   int // position within the document
}
