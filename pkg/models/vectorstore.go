package models

import "context"

// Collection is a named set of (document, embedding, metadata) tuples
// supporting k-nearest-neighbor search by cosine distance.
type Collection interface {
	Name() string
	// AddDocuments stores the tuples. The three slices must have the
	// same length.
	AddDocuments(
		ctx context.Context,
		texts []string,
		embeddings [][]float32,
		metadatas []map[string]interface{},
	) error
	// SearchSimilar returns up to k results ordered closest first.
	SearchSimilar(ctx context.Context, queryEmbedding []float32, k int) ([]SearchResult, error)
	Count() int
}

// VectorStore manages collections. Implementations are safe for
// concurrent use.
type VectorStore interface {
	// CreateOrReplaceCollection returns an empty collection, dropping
	// any previous contents under the same name.
	CreateOrReplaceCollection(ctx context.Context, name string) (Collection, error)
	// GetCollection returns the named collection or nil when absent.
	GetCollection(name string) Collection
	Close() error
}
