package tools

import (
	"context"

	"github.com/fluakademi/coursebot/pkg/models"
)

// NewSearchTool builds a semantic-search capability over one collection.
// The collection may be nil when ingestion for that corpus was skipped
// or failed; the tool then degrades to empty results without touching
// the embeddings client.
func NewSearchTool(
	name Capability,
	description string,
	source models.Corpus,
	embedder models.EmbeddingsClient,
	collection models.Collection,
	topK int,
) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Invoke: func(ctx context.Context, query string) models.RetrievalResult {
			empty := models.RetrievalResult{Documents: []string{}, Source: string(source)}

			if collection == nil {
				return empty
			}

			embeddings, err := embedder.EmbedTexts(ctx, []string{query})
			if err != nil || len(embeddings) == 0 || len(embeddings[0]) == 0 {
				// no retrieval possible for this query; degrade, don't fail
				log.Warnf("query embedding failed for %s: %v", name, err)
				return empty
			}

			results, err := collection.SearchSimilar(ctx, embeddings[0], topK)
			if err != nil {
				log.Warnf("search failed for %s: %v", name, err)
				return empty
			}

			documents := make([]string, 0, len(results))
			for _, result := range results {
				if result.Content == "" {
					continue
				}
				documents = append(documents, result.Content)
			}

			return models.RetrievalResult{Documents: documents, Source: string(source)}
		},
	}
}

// NewLimitedTool is registered in place of a search tool when the vector
// database could not be populated at all. It produces a fixed notice so
// the agent can still answer.
func NewLimitedTool(name Capability, description string, source models.Corpus) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Invoke: func(_ context.Context, query string) models.RetrievalResult {
			return models.RetrievalResult{
				Documents: []string{
					"Üzgünüm, şu anda veritabanına erişim sorunu yaşıyoruz. '" + query +
						"' hakkındaki sorunuzu yanıtlayabilmem için veritabanının çalışır durumda olması gerekiyor.",
				},
				Source: string(source),
			}
		},
	}
}
