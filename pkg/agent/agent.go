// Package agent implements the decision orchestrator: for each query it
// asks the model for a retrieval strategy, invokes the chosen tools,
// builds a grounded prompt and produces the final answer, whole or as a
// stream of increments.
package agent

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fluakademi/coursebot/internal"
	"github.com/fluakademi/coursebot/pkg/models"
	"github.com/fluakademi/coursebot/pkg/tools"
)

var log = internal.GetLogger()

var _ models.Agent = &Agent{}

type Agent struct {
	llm              models.ChatLLM
	maxContextTokens int

	mu       sync.RWMutex
	registry *tools.Registry
	ready    atomic.Bool
}

func NewAgent(llm models.ChatLLM, maxContextTokens int) *Agent {
	return &Agent{
		llm:              llm,
		maxContextTokens: maxContextTokens,
		registry:         tools.NewRegistry(),
	}
}

// Activate installs the retrieval tool registry and marks the agent
// ready to serve. Called once when startup ingestion finishes.
func (a *Agent) Activate(registry *tools.Registry) {
	a.mu.Lock()
	a.registry = registry
	a.mu.Unlock()
	a.ready.Store(true)
	log.Info("agent activated")
}

func (a *Agent) Ready() bool {
	return a.ready.Load()
}

func (a *Agent) getRegistry() *tools.Registry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registry
}

// Respond answers the query in one shot. Every failure mode maps to a
// user-facing message; the error never propagates.
func (a *Agent) Respond(ctx context.Context, query string) string {
	decision, ok := a.decide(ctx, query)
	if !ok {
		return msgCannotDecide
	}

	contextDocs, sourceInfo := a.executeDecision(ctx, decision, query)

	prompt, err := a.buildFinalPrompt(query, contextDocs, sourceInfo)
	if err != nil {
		log.Errorf("building final prompt failed: %v", err)
		return msgGenerationFailed
	}

	response, err := a.llm.Call(ctx, prompt)
	if err != nil {
		log.Errorf("generation failed: %v", err)
		return msgGenerationFailed
	}
	if response == "" {
		return msgNoResponse
	}

	return response
}

// RespondStream answers the query as a finite sequence of increments.
// The returned channel is closed once the answer is complete; a chunk
// carrying a non-nil Err is always the final item, so consumers always
// observe a terminal signal.
func (a *Agent) RespondStream(ctx context.Context, query string) <-chan models.StreamChunk {
	out := make(chan models.StreamChunk)

	go func() {
		defer close(out)

		send := func(chunk models.StreamChunk) bool {
			select {
			case out <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		decision, ok := a.decide(ctx, query)
		if !ok {
			send(models.StreamChunk{Content: msgCannotDecide})
			return
		}

		contextDocs, sourceInfo := a.executeDecision(ctx, decision, query)

		prompt, err := a.buildFinalPrompt(query, contextDocs, sourceInfo)
		if err != nil {
			log.Errorf("building final prompt failed: %v", err)
			send(models.StreamChunk{Err: err})
			return
		}

		_, err = a.llm.CallStreaming(ctx, prompt, func(fnCtx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			select {
			case out <- models.StreamChunk{Content: string(chunk)}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			case <-fnCtx.Done():
				return fnCtx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Errorf("streaming generation failed: %v", err)
			send(models.StreamChunk{Err: err})
		}
	}()

	return out
}

// decide asks the model for a retrieval strategy. The second return is
// false when the model produced no decision text at all, an expected
// and recoverable outcome.
func (a *Agent) decide(ctx context.Context, query string) (Strategy, bool) {
	registry := a.getRegistry()

	var descriptions []string
	for _, tool := range registry.List() {
		descriptions = append(descriptions, "- "+string(tool.Name)+": "+tool.Description)
	}

	prompt, err := internal.ParsePrompt(decisionPromptTemplate, decisionPromptData{
		ToolsDescription: strings.Join(descriptions, "\n"),
		Query:            query,
	})
	if err != nil {
		log.Errorf("building decision prompt failed: %v", err)
		return NoSearch, false
	}

	decisionText, err := a.llm.Call(ctx, prompt)
	if err != nil {
		log.Errorf("decision call failed: %v", err)
		return NoSearch, false
	}
	if strings.TrimSpace(decisionText) == "" {
		return NoSearch, false
	}

	decision := ParseStrategy(decisionText)
	log.Debugf("model decision for query: %s", decision)
	return decision, true
}

// executeDecision invokes the tools the decision calls for and merges
// their documents, transcript first, each tool's own ranking preserved.
func (a *Agent) executeDecision(
	ctx context.Context,
	decision Strategy,
	query string,
) ([]string, string) {
	registry := a.getRegistry()

	var transcriptDocs, bookDocs []string
	var sourceInfo string

	switch decision {
	case TranscriptOnly:
		transcriptDocs = registry.Invoke(ctx, tools.SearchTranscript, query).Documents
		sourceInfo = sourceInfoTranscript
	case BookOnly:
		bookDocs = registry.Invoke(ctx, tools.SearchBook, query).Documents
		sourceInfo = sourceInfoBook
	case BothSources:
		transcriptDocs = registry.Invoke(ctx, tools.SearchTranscript, query).Documents
		bookDocs = registry.Invoke(ctx, tools.SearchBook, query).Documents
		sourceInfo = sourceInfoBoth
	default:
		sourceInfo = sourceInfoNone
	}

	return append(transcriptDocs, bookDocs...), sourceInfo
}

// buildFinalPrompt combines the instruction preamble, the retrieved
// context (bounded by the token budget) and the query. With no context
// the preamble switches to answering from general knowledge.
func (a *Agent) buildFinalPrompt(query string, contextDocs []string, sourceInfo string) (string, error) {
	contextDocs = a.trimToTokenBudget(contextDocs)

	if len(contextDocs) == 0 {
		return internal.ParsePrompt(generalPromptTemplate, finalPromptData{Query: query})
	}

	return internal.ParsePrompt(groundedPromptTemplate, finalPromptData{
		SourceInfo: sourceInfo,
		Context:    strings.Join(contextDocs, "\n\n"),
		Query:      query,
	})
}

// trimToTokenBudget drops trailing context documents until the joined
// context fits the configured budget. The first document always
// survives so a grounded answer stays grounded.
func (a *Agent) trimToTokenBudget(contextDocs []string) []string {
	if a.maxContextTokens <= 0 || len(contextDocs) == 0 {
		return contextDocs
	}

	kept := contextDocs
	for len(kept) > 1 {
		tokens, err := a.llm.GetTokenCount(strings.Join(kept, "\n\n"))
		if err != nil {
			log.Warnf("token counting failed, skipping context trim: %v", err)
			return kept
		}
		if tokens <= a.maxContextTokens {
			return kept
		}
		kept = kept[:len(kept)-1]
	}

	return kept
}
