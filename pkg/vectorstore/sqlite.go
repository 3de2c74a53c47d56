package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"
	_ "modernc.org/sqlite"

	"github.com/fluakademi/coursebot/pkg/models"
)

var _ models.VectorStore = &SQLiteStore{}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	doc_id     TEXT NOT NULL,
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	metadata   TEXT,
	PRIMARY KEY (collection, doc_id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
`

// SQLiteStore is the persistent vector store tier. Embeddings are held
// as little-endian float32 blobs; similarity is computed in process.
type SQLiteStore struct {
	db *sql.DB

	mu          sync.RWMutex
	collections map[string]*sqliteCollection
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize store schema: %w", err)
	}

	return &SQLiteStore{
		db:          db,
		collections: make(map[string]*sqliteCollection),
	}, nil
}

func (s *SQLiteStore) CreateOrReplaceCollection(
	ctx context.Context,
	name string,
) (models.Collection, error) {
	// delete-then-create keeps this idempotent; deleting a collection
	// that does not exist is a no-op
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ?`, name); err != nil {
		return nil, fmt.Errorf("replace collection %s: %w", name, err)
	}

	c := &sqliteCollection{name: name, db: s.db}

	s.mu.Lock()
	s.collections[name] = c
	s.mu.Unlock()

	return c, nil
}

func (s *SQLiteStore) GetCollection(name string) models.Collection {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return c
	}

	// a collection populated by a previous run is still usable
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, name).Scan(&count)
	if err != nil || count == 0 {
		return nil
	}

	c = &sqliteCollection{name: name, db: s.db}
	s.mu.Lock()
	s.collections[name] = c
	s.mu.Unlock()

	return c
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteCollection struct {
	name string
	db   *sql.DB
}

var _ models.Collection = &sqliteCollection{}

func (c *sqliteCollection) Name() string {
	return c.name
}

func (c *sqliteCollection) AddDocuments(
	ctx context.Context,
	texts []string,
	embeddings [][]float32,
	metadatas []map[string]interface{},
) error {
	if err := validateAddArgs(texts, embeddings, metadatas); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO documents (collection, doc_id, content, embedding, metadata)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range texts {
		metadata, err := json.Marshal(metadatas[i])
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		docID := fmt.Sprintf("doc_%d", i)
		_, err = stmt.ExecContext(ctx,
			c.name, docID, texts[i], encodeEmbedding(embeddings[i]), string(metadata))
		if err != nil {
			return fmt.Errorf("insert document %s: %w", docID, err)
		}
	}

	return tx.Commit()
}

func (c *sqliteCollection) SearchSimilar(
	ctx context.Context,
	queryEmbedding []float32,
	k int,
) ([]models.SearchResult, error) {
	if len(queryEmbedding) == 0 || k <= 0 {
		return []models.SearchResult{}, nil
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT content, embedding, metadata FROM documents WHERE collection = ?`, c.name)
	if err != nil {
		// search is best-effort: a backend failure degrades to an
		// empty result rather than failing the query
		log.Warnf("search on collection %s failed: %v", c.name, err)
		return []models.SearchResult{}, nil
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var content, metadataJSON string
		var blob []byte
		if err := rows.Scan(&content, &blob, &metadataJSON); err != nil {
			log.Warnf("scan on collection %s failed: %v", c.name, err)
			return []models.SearchResult{}, nil
		}

		embedding := decodeEmbedding(blob)
		if len(embedding) != len(queryEmbedding) {
			continue
		}

		var metadata map[string]interface{}
		_ = json.Unmarshal([]byte(metadataJSON), &metadata)

		similarity := vek32.CosineSimilarity(queryEmbedding, embedding)
		results = append(results, models.SearchResult{
			Content:  content,
			Metadata: metadata,
			Distance: 1 - float64(similarity),
		})
	}
	if err := rows.Err(); err != nil {
		log.Warnf("search on collection %s failed: %v", c.name, err)
		return []models.SearchResult{}, nil
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func (c *sqliteCollection) Count() int {
	var count int
	err := c.db.QueryRow(
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, c.name).Scan(&count)
	if err != nil {
		return 0
	}
	return count
}
