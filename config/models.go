package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	LLM         LLM               `mapstructure:"llm"`
	Embeddings  EmbeddingsConfig  `mapstructure:"embeddings"`
	Chunker     ChunkerConfig     `mapstructure:"chunker"`
	VectorStore VectorStoreConfig `mapstructure:"vector_store"`
	Corpus      CorpusConfig      `mapstructure:"corpus"`
	Retrieval   RetrievalConfig   `mapstructure:"retrieval"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

type LLM struct {
	Model string `mapstructure:"model"`
	// OpenAIAPIKey is loaded from ENV not config file.
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`
	OpenAIOrgID    string `mapstructure:"openai_org_id"`
}

type EmbeddingsConfig struct {
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	// BatchSize is the number of texts embedded per request during ingestion.
	BatchSize int `mapstructure:"batch_size"`
	// BatchPauseMS is the pause between ingestion batches, to respect quota.
	BatchPauseMS int `mapstructure:"batch_pause_ms"`
}

type ChunkerConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
}

type VectorStoreConfig struct {
	// Path is the directory holding the persistent store. If it is not
	// writable the store falls back to a temp dir and then to memory.
	Path string `mapstructure:"path"`
}

type CorpusConfig struct {
	TranscriptFile       string `mapstructure:"transcript_file"`
	BookFile             string `mapstructure:"book_file"`
	TranscriptCollection string `mapstructure:"transcript_collection"`
	BookCollection       string `mapstructure:"book_collection"`
}

type RetrievalConfig struct {
	// TopK is the number of documents fetched per corpus search.
	TopK int `mapstructure:"top_k"`
	// MaxContextTokens bounds the joined context passed to the model.
	MaxContextTokens int `mapstructure:"max_context_tokens"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
	// ChunkDelayMS is a cosmetic pause between forwarded answer chunks.
	ChunkDelayMS int `mapstructure:"chunk_delay_ms"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
