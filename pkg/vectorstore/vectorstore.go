// Package vectorstore holds named collections of (text, embedding,
// metadata) tuples and serves k-nearest-neighbor queries by cosine
// similarity. Two tiers exist: a sqlite-backed persistent store and an
// in-memory store with an identical interface.
package vectorstore

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/fluakademi/coursebot/config"
	"github.com/fluakademi/coursebot/internal"
	"github.com/fluakademi/coursebot/pkg/models"
)

var log = internal.GetLogger()

// NewStore initializes the vector store, attempting each backing tier in
// order: sqlite at the configured path, sqlite in the system temp dir,
// then in-memory. Only failure of the in-memory tier is fatal to the
// caller.
func NewStore(cfg *config.Config) (models.VectorStore, error) {
	if cfg.VectorStore.Path != "" {
		store, err := NewSQLiteStore(filepath.Join(cfg.VectorStore.Path, "coursebot.db"))
		if err == nil {
			log.Infof("using persistent vector store at %s", cfg.VectorStore.Path)
			return store, nil
		}
		log.Warnf("persistent vector store unavailable at %s: %v", cfg.VectorStore.Path, err)
	}

	tmpPath := filepath.Join(os.TempDir(), "coursebot", "coursebot.db")
	store, err := NewSQLiteStore(tmpPath)
	if err == nil {
		log.Warnf("falling back to temp vector store at %s", tmpPath)
		return store, nil
	}
	log.Warnf("temp vector store unavailable: %v", err)

	log.Warn("falling back to in-memory vector store; collections will not survive restarts")
	return NewMemoryStore(), nil
}

// encodeEmbedding converts a float32 vector to its IEEE 754 binary
// representation in little-endian order.
func encodeEmbedding(fs []float32) []byte {
	buf := make([]byte, 4*len(fs))
	for i, f := range fs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeEmbedding is the inverse of encodeEmbedding.
func decodeEmbedding(buf []byte) []float32 {
	fs := make([]float32, len(buf)/4)
	for i := range fs {
		fs[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return fs
}

func validateAddArgs(
	texts []string,
	embeddings [][]float32,
	metadatas []map[string]interface{},
) error {
	if len(texts) != len(embeddings) || len(texts) != len(metadatas) {
		return &lengthMismatchError{len(texts), len(embeddings), len(metadatas)}
	}
	return nil
}

type lengthMismatchError struct {
	texts, embeddings, metadatas int
}

func (e *lengthMismatchError) Error() string {
	return "texts, embeddings and metadatas must have the same length"
}
