package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluakademi/coursebot/config"
	"github.com/fluakademi/coursebot/pkg/models"
	"github.com/fluakademi/coursebot/pkg/vectorstore"
)

type fakeEmbedder struct {
	batchSizes []int
	calls      int
	failFrom   int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.failFrom > 0 && f.calls >= f.failFrom {
		return nil, errors.New("embedding quota exceeded")
	}
	f.batchSizes = append(f.batchSizes, len(texts))
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(len(texts[i])), 1, 0}
	}
	return embeddings, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Chunker.ChunkSize = 40
	cfg.Chunker.ChunkOverlap = 10
	cfg.Embeddings.BatchSize = 2
	cfg.Embeddings.BatchPauseMS = 0
	cfg.Corpus.TranscriptFile = filepath.Join(dir, "transcript.txt")
	cfg.Corpus.BookFile = filepath.Join(dir, "kitap.txt")
	cfg.Corpus.TranscriptCollection = "transcript_collection"
	cfg.Corpus.BookCollection = "book_collection"
	return cfg
}

func writeCorpus(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestIngestBothCorpora(t *testing.T) {
	cfg := testConfig(t)
	writeCorpus(t, cfg.Corpus.TranscriptFile,
		"Neolitik Devrim insanlık tarihinin en önemli dönüm noktalarından biridir. "+
			"Avcı toplayıcılıktan yerleşik tarıma geçiş bu dönemde yaşandı.")
	writeCorpus(t, cfg.Corpus.BookFile,
		"Göbekli Tepe kazıları yerleşik yaşamın başlangıcına dair görüşleri değiştirdi.")

	store := vectorstore.NewMemoryStore()
	svc := NewService(cfg, &fakeEmbedder{}, store)

	result := svc.Run(context.Background())

	require.NotNil(t, result.Transcript)
	require.NotNil(t, result.Book)
	assert.Greater(t, result.Transcript.Count(), 0)
	assert.Greater(t, result.Book.Count(), 0)
	assert.Equal(t, result.Transcript, store.GetCollection(cfg.Corpus.TranscriptCollection))
	assert.Equal(t, result.Book, store.GetCollection(cfg.Corpus.BookCollection))
}

func TestIngestMissingFileIsContained(t *testing.T) {
	cfg := testConfig(t)
	writeCorpus(t, cfg.Corpus.BookFile, "Kitap içeriği burada. Tarım devrimi uzun sürdü.")

	store := vectorstore.NewMemoryStore()
	result := NewService(cfg, &fakeEmbedder{}, store).Run(context.Background())

	assert.Nil(t, result.Transcript)
	require.NotNil(t, result.Book)
	assert.Greater(t, result.Book.Count(), 0)
}

func TestIngestEmbeddingFailureIsContained(t *testing.T) {
	cfg := testConfig(t)
	writeCorpus(t, cfg.Corpus.TranscriptFile, "Ders notları. Çanak çömlek öncesi dönem.")
	writeCorpus(t, cfg.Corpus.BookFile, "Kitap metni. Tahıl tarımı ve hayvan evcilleştirme.")

	store := vectorstore.NewMemoryStore()
	embedder := &fakeEmbedder{failFrom: 1}
	result := NewService(cfg, embedder, store).Run(context.Background())

	assert.Nil(t, result.Transcript)
	assert.Nil(t, result.Book)
	assert.Nil(t, store.GetCollection(cfg.Corpus.TranscriptCollection))
}

func TestIngestBatchesEmbeddingCalls(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chunker.ChunkSize = 20
	cfg.Chunker.ChunkOverlap = 0
	writeCorpus(t, cfg.Corpus.TranscriptFile,
		"bir iki üç dört beş altı yedi sekiz dokuz on onbir oniki onüç ondört onbeş onaltı")

	store := vectorstore.NewMemoryStore()
	embedder := &fakeEmbedder{}
	result := NewService(cfg, embedder, store).Run(context.Background())

	require.NotNil(t, result.Transcript)
	require.Greater(t, len(embedder.batchSizes), 1)
	for _, size := range embedder.batchSizes {
		assert.LessOrEqual(t, size, cfg.Embeddings.BatchSize)
	}
}

func TestIngestChunkMetadata(t *testing.T) {
	cfg := testConfig(t)
	writeCorpus(t, cfg.Corpus.TranscriptFile,
		"Birinci cümle burada bitiyor. İkinci cümle de burada bitiyor. Üçüncü cümle son.")

	store := vectorstore.NewMemoryStore()
	result := NewService(cfg, &fakeEmbedder{}, store).Run(context.Background())
	require.NotNil(t, result.Transcript)

	results, err := result.Transcript.SearchSimilar(context.Background(), []float32{1, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, string(models.CorpusTranscript), results[0].Metadata["source"])
	assert.Contains(t, results[0].Metadata, "chunk_index")
}
