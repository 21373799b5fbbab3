package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hackrx/llm-atlas/pkg/document"
	"github.com/hackrx/llm-atlas/pkg/llm"
)

// ErrBadDocument marks failures caused by the submitted document itself
// (unreachable URL, unparseable content). Callers map it to a client error.
var ErrBadDocument = errors.New("document could not be processed")

// Repository is the slice of the vector store the ingest flow needs.
type Repository interface {
	HasSource(ctx context.Context, sourceURL string) (bool, error)
	InsertChunks(ctx context.Context, chunks []document.Chunk, embeddings [][]float32) error
}

// UseCase indexes a source document into the vector store, once per URL.
type UseCase interface {
	EnsureIndexed(ctx context.Context, sourceURL string) error
}

type service struct {
	repo     Repository
	fetcher  *document.Fetcher
	splitter *document.Splitter
	embedder llm.Embedder
	group    singleflight.Group
}

func NewService(repo Repository, fetcher *document.Fetcher, splitter *document.Splitter, embedder llm.Embedder) UseCase {
	return &service{
		repo:     repo,
		fetcher:  fetcher,
		splitter: splitter,
		embedder: embedder,
	}
}

// EnsureIndexed fetches, parses, chunks, embeds and stores the document at
// sourceURL unless its chunks are already present. Concurrent calls for the
// same URL are collapsed into one indexing run.
func (s *service) EnsureIndexed(ctx context.Context, sourceURL string) error {
	_, err, _ := s.group.Do(sourceURL, func() (interface{}, error) {
		return nil, s.index(ctx, sourceURL)
	})
	return err
}

func (s *service) index(ctx context.Context, sourceURL string) error {
	indexed, err := s.repo.HasSource(ctx, sourceURL)
	if err != nil {
		return err
	}
	if indexed {
		logrus.WithField("url", sourceURL).Info("Document found in MongoDB, skipping indexing")
		return nil
	}

	logrus.WithField("url", sourceURL).Info("Document not found in MongoDB, processing and storing")
	doc, data, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	text, err := document.ParseText(doc.Format, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if text == "" {
		return fmt.Errorf("%w: document is empty", ErrBadDocument)
	}
	doc.Text = text

	chunks, err := s.splitter.Split(doc)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks produced", ErrBadDocument)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if err := s.repo.InsertChunks(ctx, chunks, vectors); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"url":    sourceURL,
		"file":   doc.Filename,
		"chunks": len(chunks),
	}).Info("Document indexed")
	return nil
}
