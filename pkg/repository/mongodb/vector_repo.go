package mongodb

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hackrx/llm-atlas/pkg/document"
)

// ConnectFunc dials the Atlas cluster on demand. The repository keeps the
// collection once a dial succeeds, so a cluster that was down at startup is
// retried on the first request.
type ConnectFunc func(ctx context.Context) (*mongo.Collection, error)

// VectorRepository stores embedded chunks and runs $vectorSearch queries
// against a MongoDB Atlas search index.
type VectorRepository struct {
	mu      sync.Mutex
	coll    *mongo.Collection
	connect ConnectFunc
	index   string
}

func NewVectorRepository(connect ConnectFunc, index string) *VectorRepository {
	if index == "" {
		index = "vector_index"
	}
	return &VectorRepository{connect: connect, index: index}
}

// NewVectorRepositoryWithCollection wires an already-connected collection.
func NewVectorRepositoryWithCollection(coll *mongo.Collection, index string) *VectorRepository {
	r := NewVectorRepository(nil, index)
	r.coll = coll
	return r
}

func (r *VectorRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coll != nil {
		return r.coll, nil
	}
	if r.connect == nil {
		return nil, fmt.Errorf("mongodb connection failed: no dialer configured")
	}
	coll, err := r.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}
	r.coll = coll
	return r.coll, nil
}

type chunkRecord struct {
	ID        string            `bson:"_id"`
	Text      string            `bson:"text"`
	Index     int               `bson:"chunk_index"`
	Metadata  document.Metadata `bson:"metadata"`
	Embedding []float32         `bson:"embedding"`
}

// HasSource reports whether any chunk of the given source URL is already
// indexed. Used as the per-document idempotency check.
func (r *VectorRepository) HasSource(ctx context.Context, sourceURL string) (bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}
	n, err := coll.CountDocuments(ctx,
		bson.M{"metadata.source_url": sourceURL},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("count documents: %w", err)
	}
	return n > 0, nil
}

// InsertChunks writes embedded chunks to the vector collection.
func (r *VectorRepository) InsertChunks(ctx context.Context, chunks []document.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks and embeddings length mismatch: %d != %d", len(chunks), len(embeddings))
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	records := make([]interface{}, 0, len(chunks))
	for i, c := range chunks {
		records = append(records, chunkRecord{
			ID:        c.ID,
			Text:      c.Text,
			Index:     c.Index,
			Metadata:  c.Metadata,
			Embedding: embeddings[i],
		})
	}
	if _, err := coll.InsertMany(ctx, records); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

// Search returns the k nearest chunks for the query vector. The whole
// collection is searched; scoping to one source would require a filter field
// on the Atlas index definition.
func (r *VectorRepository) Search(ctx context.Context, vector []float32, k int) ([]document.Match, error) {
	if k <= 0 {
		k = 5
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: r.index},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: vector},
			{Key: "numCandidates", Value: k * 20},
			{Key: "limit", Value: k},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "text", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Text     string            `bson:"text"`
		Metadata document.Metadata `bson:"metadata"`
		Score    float64           `bson:"score"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	matches := make([]document.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, document.Match{Text: row.Text, Metadata: row.Metadata, Score: row.Score})
	}
	return matches, nil
}
