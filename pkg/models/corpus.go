package models

// Corpus identifies one of the two ingested course sources.
type Corpus string

const (
	CorpusTranscript Corpus = "transcript"
	CorpusBook       Corpus = "book"
)

// Chunk is one piece of a split corpus file, ready for embedding.
type Chunk struct {
	Text       string
	Source     Corpus
	ChunkIndex int
}

// SearchResult is a single hit from a similarity search. Distance is
// cosine distance: lower is closer.
type SearchResult struct {
	Content  string
	Metadata map[string]interface{}
	Distance float64
}

// RetrievalResult is what a retrieval tool hands back to the agent.
// Documents is never nil; an empty slice means the tool degraded.
type RetrievalResult struct {
	Documents []string
	Source    string
}
