package config

import (
	"errors"
	"strings"

	"github.com/fluakademi/coursebot/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var ErrAPIKeyNotSet = errors.New("COURSEBOT_OPENAI_API_KEY is not set")

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("COURSEBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warn("no config file found, using defaults and ENV")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	err := viper.BindEnv("llm.openai_api_key", "COURSEBOT_OPENAI_API_KEY")
	if err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("llm.model", "gpt-3.5-turbo")
	viper.SetDefault("embeddings.model", "text-embedding-ada-002")
	viper.SetDefault("embeddings.dimensions", 1536)
	viper.SetDefault("embeddings.batch_size", 10)
	viper.SetDefault("embeddings.batch_pause_ms", 1000)
	viper.SetDefault("chunker.chunk_size", 1000)
	viper.SetDefault("chunker.chunk_overlap", 200)
	viper.SetDefault("vector_store.path", "./data")
	viper.SetDefault("corpus.transcript_file", "transcript.txt")
	viper.SetDefault("corpus.book_file", "kitap.txt")
	viper.SetDefault("corpus.transcript_collection", "transcript_collection")
	viper.SetDefault("corpus.book_collection", "book_collection")
	viper.SetDefault("retrieval.top_k", 4)
	viper.SetDefault("retrieval.max_context_tokens", 3000)
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.static_dir", "./web/static")
	viper.SetDefault("server.chunk_delay_ms", 20)
	viper.SetDefault("log.level", "info")
}

// Validate checks that required configuration is present. A missing API key
// is fatal at startup: we refuse to serve half-configured.
func Validate(cfg *Config) error {
	if cfg.LLM.OpenAIAPIKey == "" {
		return ErrAPIKeyNotSet
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
