package llms

import (
	"context"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/fluakademi/coursebot/config"
	"github.com/fluakademi/coursebot/pkg/models"
)

var _ models.ChatLLM = &OpenAILLM{}
var _ models.EmbeddingsClient = &OpenAILLM{}

func NewOpenAILLM(ctx context.Context, cfg *config.Config) (*OpenAILLM, error) {
	zllm := &OpenAILLM{}
	err := zllm.Init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return zllm, nil
}

type OpenAILLM struct {
	llm *openai.Chat
	tkm *tiktoken.Tiktoken
}

func (zllm *OpenAILLM) Init(_ context.Context, cfg *config.Config) error {
	// Initialize the Tiktoken client
	encoding := "cl100k_base"
	tkm, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return err
	}
	zllm.tkm = tkm

	options, err := zllm.configureClient(cfg)
	if err != nil {
		return err
	}

	// Create a new client instance with options
	llm, err := openai.NewChat(options...)
	if err != nil {
		return err
	}
	zllm.llm = llm

	return nil
}

func (zllm *OpenAILLM) Call(ctx context.Context,
	prompt string,
	options ...llms.CallOption,
) (string, error) {
	// If the LLM is not initialized, return an error
	if zllm.llm == nil {
		return "", NewLLMError(InvalidLLMModelError, nil)
	}

	if len(options) == 0 {
		options = append(options, llms.WithTemperature(DefaultTemperature))
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	messages := []schema.ChatMessage{schema.SystemChatMessage{Content: prompt}}

	completion, err := zllm.llm.Call(thisCtx, messages, options...)
	if err != nil {
		return "", err
	}

	return completion.GetContent(), nil
}

// CallStreaming runs the completion with fn invoked for every increment
// produced by the model. The accumulated completion is returned once the
// stream ends.
func (zllm *OpenAILLM) CallStreaming(ctx context.Context,
	prompt string,
	fn models.StreamingFunc,
) (string, error) {
	if zllm.llm == nil {
		return "", NewLLMError(InvalidLLMModelError, nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	messages := []schema.ChatMessage{schema.SystemChatMessage{Content: prompt}}

	completion, err := zllm.llm.Call(thisCtx, messages,
		llms.WithTemperature(DefaultTemperature),
		llms.WithStreamingFunc(fn),
	)
	if err != nil {
		return "", err
	}

	return completion.GetContent(), nil
}

func (zllm *OpenAILLM) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	// If the LLM is not initialized, return an error
	if zllm.llm == nil {
		return nil, NewLLMError(InvalidLLMModelError, nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	embeddings, err := zllm.llm.CreateEmbedding(thisCtx, texts)
	if err != nil {
		return nil, NewLLMError("error while creating embedding", err)
	}

	return embeddings, nil
}

// GetTokenCount returns the number of tokens in the text
func (zllm *OpenAILLM) GetTokenCount(text string) (int, error) {
	return len(zllm.tkm.Encode(text, nil, nil)), nil
}

func (zllm *OpenAILLM) configureClient(cfg *config.Config) ([]openai.Option, error) {
	apiKey := cfg.LLM.OpenAIAPIKey
	if apiKey == "" {
		return nil, NewLLMError(config.ErrAPIKeyNotSet.Error(), nil)
	}

	retryableHTTPClient := NewRetryableHTTPClient(MaxOpenAIAPIRequestAttempts, OpenAIAPITimeout)

	options := make([]openai.Option, 0)
	options = append(
		options,
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithModel(cfg.LLM.Model),
		openai.WithToken(apiKey),
	)

	if cfg.Embeddings.Model != "" {
		options = append(options, openai.WithEmbeddingModel(cfg.Embeddings.Model))
	}
	if cfg.LLM.OpenAIEndpoint != "" {
		options = append(options, openai.WithBaseURL(cfg.LLM.OpenAIEndpoint))
	}
	if cfg.LLM.OpenAIOrgID != "" {
		options = append(options, openai.WithOrganization(cfg.LLM.OpenAIOrgID))
	}

	return options, nil
}
