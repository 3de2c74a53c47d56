package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/fluakademi/coursebot/pkg/models"
	"github.com/fluakademi/coursebot/pkg/tools"
)

// fakeLLM answers the decision prompt with decision and streams answer
// in word-sized increments for the final prompt.
type fakeLLM struct {
	decision    string
	answer      string
	decisionErr error
	answerErr   error
	streamFail  bool
}

func (f *fakeLLM) Call(_ context.Context, prompt string, _ ...llms.CallOption) (string, error) {
	if strings.Contains(prompt, "KARAR VER") {
		return f.decision, f.decisionErr
	}
	return f.answer, f.answerErr
}

func (f *fakeLLM) CallStreaming(
	ctx context.Context, prompt string, fn models.StreamingFunc,
) (string, error) {
	if strings.Contains(prompt, "KARAR VER") {
		return f.decision, f.decisionErr
	}
	if f.answerErr != nil {
		return "", f.answerErr
	}
	words := strings.SplitAfter(f.answer, " ")
	for i, word := range words {
		if f.streamFail && i == len(words)/2 {
			return "", errors.New("stream interrupted")
		}
		if err := fn(ctx, []byte(word)); err != nil {
			return "", err
		}
	}
	return f.answer, nil
}

func (f *fakeLLM) GetTokenCount(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func staticTool(name tools.Capability, source models.Corpus, docs ...string) tools.Tool {
	return tools.Tool{
		Name:        name,
		Description: string(name),
		Invoke: func(_ context.Context, _ string) models.RetrievalResult {
			return models.RetrievalResult{Documents: docs, Source: string(source)}
		},
	}
}

func newTestAgent(llm models.ChatLLM, registered ...tools.Tool) *Agent {
	a := NewAgent(llm, 0)
	a.Activate(tools.NewRegistry(registered...))
	return a
}

func collectStream(t *testing.T, stream <-chan models.StreamChunk) (string, error) {
	t.Helper()
	var b strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return b.String(), chunk.Err
		}
		b.WriteString(chunk.Content)
	}
	return b.String(), nil
}

func TestAgentReadiness(t *testing.T) {
	a := NewAgent(&fakeLLM{}, 0)
	assert.False(t, a.Ready())

	a.Activate(tools.NewRegistry())
	assert.True(t, a.Ready())
}

func TestAgentRespond(t *testing.T) {
	llm := &fakeLLM{decision: "NO_SEARCH", answer: "Genel bir yanıt."}
	a := newTestAgent(llm)

	response := a.Respond(context.Background(), "Merhaba")
	assert.Equal(t, "Genel bir yanıt.", response)
}

func TestAgentRespondEmptyDecision(t *testing.T) {
	llm := &fakeLLM{decision: "", answer: "yanıt"}
	a := newTestAgent(llm)

	response := a.Respond(context.Background(), "soru")
	assert.Equal(t, msgCannotDecide, response)
}

func TestAgentRespondDecisionError(t *testing.T) {
	llm := &fakeLLM{decisionErr: errors.New("api down")}
	a := newTestAgent(llm)

	response := a.Respond(context.Background(), "soru")
	assert.Equal(t, msgCannotDecide, response)
}

func TestAgentRespondEmptyGeneration(t *testing.T) {
	llm := &fakeLLM{decision: "NO_SEARCH", answer: ""}
	a := newTestAgent(llm)

	response := a.Respond(context.Background(), "soru")
	assert.Equal(t, msgNoResponse, response)
}

func TestExecuteDecisionOrdering(t *testing.T) {
	a := newTestAgent(
		&fakeLLM{},
		staticTool(tools.SearchTranscript, models.CorpusTranscript, "ders-1", "ders-2"),
		staticTool(tools.SearchBook, models.CorpusBook, "kitap-1", "kitap-2"),
	)

	testCases := []struct {
		name         string
		decision     Strategy
		expectedDocs []string
		expectedInfo string
	}{
		{
			name:         "both sources keeps transcript first",
			decision:     BothSources,
			expectedDocs: []string{"ders-1", "ders-2", "kitap-1", "kitap-2"},
			expectedInfo: sourceInfoBoth,
		},
		{
			name:         "transcript only",
			decision:     TranscriptOnly,
			expectedDocs: []string{"ders-1", "ders-2"},
			expectedInfo: sourceInfoTranscript,
		},
		{
			name:         "book only",
			decision:     BookOnly,
			expectedDocs: []string{"kitap-1", "kitap-2"},
			expectedInfo: sourceInfoBook,
		},
		{
			name:         "no search",
			decision:     NoSearch,
			expectedDocs: nil,
			expectedInfo: sourceInfoNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			docs, sourceInfo := a.executeDecision(context.Background(), tc.decision, "soru")
			assert.Equal(t, tc.expectedDocs, docs)
			assert.Equal(t, tc.expectedInfo, sourceInfo)
		})
	}
}

func TestAgentRespondStream(t *testing.T) {
	llm := &fakeLLM{
		decision: "BOTH_SOURCES",
		answer:   "Neolitik Devrim MÖ 10.000 civarında başladı.",
	}
	a := newTestAgent(
		llm,
		staticTool(tools.SearchTranscript, models.CorpusTranscript, "ders"),
		staticTool(tools.SearchBook, models.CorpusBook, "kitap"),
	)

	full, err := collectStream(t, a.RespondStream(context.Background(), "Ne zaman oldu?"))
	require.NoError(t, err)
	assert.Equal(t, llm.answer, full)
}

func TestAgentRespondStreamEmptyDecision(t *testing.T) {
	llm := &fakeLLM{decision: ""}
	a := newTestAgent(llm)

	full, err := collectStream(t, a.RespondStream(context.Background(), "soru"))
	require.NoError(t, err)
	assert.Equal(t, msgCannotDecide, full)
}

func TestAgentRespondStreamMidStreamFailure(t *testing.T) {
	llm := &fakeLLM{
		decision:   "NO_SEARCH",
		answer:     "bir iki üç dört",
		streamFail: true,
	}
	a := newTestAgent(llm)

	partial, err := collectStream(t, a.RespondStream(context.Background(), "soru"))
	assert.Error(t, err, "mid-stream failure must surface a terminal error chunk")
	assert.Less(t, len(partial), len(llm.answer))
}

func TestAgentRespondStreamCancellation(t *testing.T) {
	llm := &fakeLLM{decision: "NO_SEARCH", answer: "uzun bir yanıt olacaktı"}
	a := newTestAgent(llm)

	ctx, cancel := context.WithCancel(context.Background())
	stream := a.RespondStream(ctx, "soru")

	// consume one chunk then walk away
	<-stream
	cancel()

	for range stream { //nolint:revive // draining until close
	}
}

func TestTrimToTokenBudget(t *testing.T) {
	llm := &fakeLLM{}
	a := NewAgent(llm, 4)
	a.Activate(tools.NewRegistry())

	docs := []string{"bir iki üç", "dört beş altı", "yedi sekiz"}
	kept := a.trimToTokenBudget(docs)
	assert.Equal(t, []string{"bir iki üç"}, kept)

	a2 := NewAgent(llm, 0)
	assert.Equal(t, docs, a2.trimToTokenBudget(docs))
}
