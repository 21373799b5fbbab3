package document

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter cuts parsed document text into overlapping chunks ready for
// embedding.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize == 0 {
		chunkSize = 1500
	}
	if chunkOverlap == 0 {
		chunkOverlap = 200
	}
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Split chunks the document text and stamps each chunk with source metadata.
func (s *Splitter) Split(doc Document) ([]Chunk, error) {
	parts, err := s.inner.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("split document: %w", err)
	}
	meta := Metadata{
		SourceDocument: doc.Filename,
		SourceURL:      doc.SourceURL,
	}
	chunks := make([]Chunk, 0, len(parts))
	for i, text := range parts {
		if text == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:       uuid.NewString(),
			Index:    i,
			Text:     text,
			Metadata: meta,
		})
	}
	return chunks, nil
}
