package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fluakademi/coursebot/config"
	"github.com/fluakademi/coursebot/pkg/agent"
	"github.com/fluakademi/coursebot/pkg/ingest"
	"github.com/fluakademi/coursebot/pkg/llms"
	"github.com/fluakademi/coursebot/pkg/models"
	"github.com/fluakademi/coursebot/pkg/server"
	"github.com/fluakademi/coursebot/pkg/tools"
	"github.com/fluakademi/coursebot/pkg/vectorstore"
)

// run is the entrypoint for the coursebot server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring coursebot: %s", err)
	}

	handleCLIOptions(cfg)

	if err := config.Validate(cfg); err != nil {
		log.Fatal(err)
	}

	log.Infof("Starting coursebot server version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState, chatAgent := NewAppState(cfg)

	// The server starts serving health checks and the web client right
	// away; the agent activates once ingestion finishes.
	go warmUp(context.Background(), appState, chatAgent)

	srv := server.Create(appState)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV,
// initializes the vector store and creates the OpenAI client
func NewAppState(cfg *config.Config) (*models.AppState, *agent.Agent) {
	llmClient, err := llms.NewOpenAILLM(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Error creating OpenAI client: %s", err)
	}

	store, err := vectorstore.NewStore(cfg)
	if err != nil {
		log.Fatalf("Error initializing vector store: %s", err)
	}

	chatAgent := agent.NewAgent(llmClient, cfg.Retrieval.MaxContextTokens)

	appState := &models.AppState{
		LLMClient:        llmClient,
		EmbeddingsClient: llmClient,
		VectorStore:      store,
		Agent:            chatAgent,
		Config:           cfg,
	}

	setupSignalHandler(appState)

	return appState, chatAgent
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			log.Fatalf("Error dumping config: %s", err)
		}
		fmt.Println(string(out))
		os.Exit(0)
	}
}

// warmUp ingests both corpora, wires the retrieval tools and activates
// the agent. Runs in the background while the server is already up.
func warmUp(ctx context.Context, appState *models.AppState, chatAgent *agent.Agent) {
	result := ingest.NewService(appState.Config, appState.EmbeddingsClient, appState.VectorStore).
		Run(ctx)
	log.Infof("ingestion finished (%s)", result)

	chatAgent.Activate(buildRegistry(appState, result))
}

// buildRegistry wires the retrieval tools for whatever collections
// ingestion managed to populate. With no collections at all the agent
// runs in limited mode and can still answer from general knowledge.
func buildRegistry(appState *models.AppState, result ingest.Result) *tools.Registry {
	if result.Transcript == nil && result.Book == nil {
		log.Warn("no collections available, registering limited tools")
		return tools.NewRegistry(
			tools.NewLimitedTool(
				tools.SearchTranscript,
				"Ders içeriğinde arama yapar (sınırlı mod).",
				models.CorpusTranscript,
			),
			tools.NewLimitedTool(
				tools.SearchBook,
				"Kitap içeriğinde arama yapar (sınırlı mod).",
				models.CorpusBook,
			),
		)
	}

	topK := appState.Config.Retrieval.TopK
	return tools.NewRegistry(
		tools.NewSearchTool(
			tools.SearchTranscript,
			"Ders içeriğinde arama yapar. Derste anlatılan konular için kullan.",
			models.CorpusTranscript,
			appState.EmbeddingsClient,
			result.Transcript,
			topK,
		),
		tools.NewSearchTool(
			tools.SearchBook,
			"Kitap içeriğinde detaylı teorik bilgi arar. Kavramsal açıklamalar için kullan.",
			models.CorpusBook,
			appState.EmbeddingsClient,
			result.Book,
			topK,
		),
	)
}

// setupSignalHandler sets up a signal handler to close the vector store on termination
func setupSignalHandler(appState *models.AppState) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		if err := appState.VectorStore.Close(); err != nil {
			log.Errorf("Error closing vector store: %v", err)
		}
		os.Exit(0)
	}()
}
