package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/fluakademi/coursebot/pkg/models"
)

var _ models.VectorStore = &MemoryStore{}

// MemoryStore is a non-persistent vector store using brute-force cosine
// similarity. It is the last fallback tier when no writable path exists.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) CreateOrReplaceCollection(
	_ context.Context,
	name string,
) (models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// dropping any previous collection of the same name makes this
	// idempotent; a failed delete cannot happen in memory
	c := &memoryCollection{name: name}
	s.collections[name] = c
	return c, nil
}

func (s *MemoryStore) GetCollection(name string) models.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	return c
}

func (s *MemoryStore) Close() error {
	return nil
}

type memoryCollection struct {
	name string

	mu         sync.RWMutex
	documents  []string
	embeddings [][]float32
	metadatas  []map[string]interface{}
}

var _ models.Collection = &memoryCollection{}

func (c *memoryCollection) Name() string {
	return c.name
}

func (c *memoryCollection) AddDocuments(
	_ context.Context,
	texts []string,
	embeddings [][]float32,
	metadatas []map[string]interface{},
) error {
	if err := validateAddArgs(texts, embeddings, metadatas); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range texts {
		if metadatas[i] == nil {
			metadatas[i] = map[string]interface{}{}
		}
		metadatas[i]["id"] = fmt.Sprintf("doc_%d", len(c.documents))
		c.documents = append(c.documents, texts[i])
		c.embeddings = append(c.embeddings, embeddings[i])
		c.metadatas = append(c.metadatas, metadatas[i])
	}

	return nil
}

func (c *memoryCollection) SearchSimilar(
	_ context.Context,
	queryEmbedding []float32,
	k int,
) ([]models.SearchResult, error) {
	if len(queryEmbedding) == 0 || k <= 0 {
		return []models.SearchResult{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	type scored struct {
		idx  int
		dist float64
	}

	scores := make([]scored, 0, len(c.documents))
	for i, embedding := range c.embeddings {
		if len(embedding) != len(queryEmbedding) {
			continue
		}
		similarity := vek32.CosineSimilarity(queryEmbedding, embedding)
		scores = append(scores, scored{idx: i, dist: 1 - float64(similarity)})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })

	if k > len(scores) {
		k = len(scores)
	}

	results := make([]models.SearchResult, 0, k)
	for _, s := range scores[:k] {
		results = append(results, models.SearchResult{
			Content:  c.documents[s.idx],
			Metadata: c.metadatas[s.idx],
			Distance: s.dist,
		})
	}

	return results, nil
}

func (c *memoryCollection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.documents)
}
