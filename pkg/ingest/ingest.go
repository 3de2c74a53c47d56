// Package ingest loads the corpus files, splits them into chunks,
// embeds the chunks and populates the vector store collections.
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fluakademi/coursebot/config"
	"github.com/fluakademi/coursebot/internal"
	"github.com/fluakademi/coursebot/pkg/models"
	"github.com/fluakademi/coursebot/pkg/textsplitter"
)

var log = internal.GetLogger()

type Service struct {
	cfg      *config.Config
	embedder models.EmbeddingsClient
	store    models.VectorStore
}

// Result reports which collections were populated. A nil collection
// means that corpus is unavailable and its tool must degrade.
type Result struct {
	Transcript models.Collection
	Book       models.Collection
}

func NewService(
	cfg *config.Config,
	embedder models.EmbeddingsClient,
	store models.VectorStore,
) *Service {
	return &Service{cfg: cfg, embedder: embedder, store: store}
}

// Run ingests both corpora. A failure in one corpus is contained: the
// other corpus and the no-search strategy stay fully functional.
func (s *Service) Run(ctx context.Context) Result {
	result := Result{
		Transcript: s.ingestCorpus(
			ctx,
			models.CorpusTranscript,
			s.cfg.Corpus.TranscriptFile,
			s.cfg.Corpus.TranscriptCollection,
		),
		Book: s.ingestCorpus(
			ctx,
			models.CorpusBook,
			s.cfg.Corpus.BookFile,
			s.cfg.Corpus.BookCollection,
		),
	}
	return result
}

func (s *Service) ingestCorpus(
	ctx context.Context,
	corpus models.Corpus,
	filePath string,
	collectionName string,
) models.Collection {
	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Warnf("corpus file %s unavailable, skipping %s ingestion: %v", filePath, corpus, err)
		return nil
	}

	chunks := textsplitter.CreateChunks(
		string(content),
		s.cfg.Chunker.ChunkSize,
		s.cfg.Chunker.ChunkOverlap,
	)
	if len(chunks) == 0 {
		log.Warnf("corpus file %s produced no chunks, skipping %s ingestion", filePath, corpus)
		return nil
	}
	log.Infof("split %s into %d chunks", filePath, len(chunks))

	embeddings := s.embedChunks(ctx, chunks)
	if len(embeddings) == 0 {
		log.Errorf("embedding %s failed, its retrieval tool will degrade", corpus)
		return nil
	}

	collection, err := s.store.CreateOrReplaceCollection(ctx, collectionName)
	if err != nil {
		log.Errorf("creating collection %s failed: %v", collectionName, err)
		return nil
	}

	metadatas := make([]map[string]interface{}, len(chunks))
	for i := range chunks {
		metadatas[i] = map[string]interface{}{
			"source":      string(corpus),
			"chunk_index": i,
		}
	}

	if err := collection.AddDocuments(ctx, chunks, embeddings, metadatas); err != nil {
		log.Errorf("storing documents for %s failed: %v", collectionName, err)
		return nil
	}

	log.Infof("ingested %d documents into %s", collection.Count(), collectionName)
	return collection
}

// embedChunks embeds in sub-batches with a pause in between so bulk
// ingestion respects the embedding service's quota. Any failure aborts
// the whole batch: partial collections are worse than absent ones.
func (s *Service) embedChunks(ctx context.Context, chunks []string) [][]float32 {
	batchSize := s.cfg.Embeddings.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	pause := time.Duration(s.cfg.Embeddings.BatchPauseMS) * time.Millisecond

	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += batchSize {
		if start > 0 && pause > 0 {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				log.Warnf("ingestion cancelled: %v", ctx.Err())
				return nil
			}
		}

		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch, err := s.embedder.EmbedTexts(ctx, chunks[start:end])
		if err != nil {
			log.Errorf("embedding batch %d-%d failed: %v", start, end, err)
			return nil
		}
		if len(batch) != end-start {
			log.Errorf("embedding batch %d-%d returned %d vectors", start, end, len(batch))
			return nil
		}
		embeddings = append(embeddings, batch...)

		if end < len(chunks) {
			log.Debugf("embedded %d/%d chunks", end, len(chunks))
		}
	}

	return embeddings
}

// String implements fmt.Stringer for logging ingestion outcomes.
func (r Result) String() string {
	status := func(c models.Collection) string {
		if c == nil {
			return "unavailable"
		}
		return fmt.Sprintf("%d docs", c.Count())
	}
	return fmt.Sprintf("transcript: %s, book: %s", status(r.Transcript), status(r.Book))
}
