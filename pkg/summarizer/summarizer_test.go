package summarizer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCompleter records the last request and plays back a canned answer.
type stubCompleter struct {
	lastReq openai.ChatCompletionRequest
	calls   int
	answer  string
	err     error
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	s.calls++
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.answer}},
		},
	}, nil
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func longText() string {
	return strings.Repeat("All work and no play makes for dull summaries. ", 20)
}

func TestSummarize_LongContentUsesSummaryTier(t *testing.T) {
	stub := &stubCompleter{answer: "A neutral two sentence summary. It covers the core topic."}
	s := New(stub, testLogger())

	result := s.Summarize(context.Background(), longText())

	require.True(t, result.Attempted)
	assert.True(t, result.Generated)
	assert.Equal(t, "A neutral two sentence summary. It covers the core topic.", result.Summary)
	assert.Equal(t, summaryModel, stub.lastReq.Model)
	assert.InDelta(t, summaryTemperature, stub.lastReq.Temperature, 0.001)
	assert.Equal(t, summaryMaxTokens, stub.lastReq.MaxTokens)
}

func TestSummarize_LongContentTruncatedToCap(t *testing.T) {
	marker := "UNIQUE-TAIL-MARKER"
	text := strings.Repeat("x", maxPromptChars+500) + marker
	stub := &stubCompleter{answer: "Summary."}
	s := New(stub, testLogger())

	s.Summarize(context.Background(), text)

	require.Len(t, stub.lastReq.Messages, 1)
	prompt := stub.lastReq.Messages[0].Content
	assert.NotContains(t, prompt, marker, "text beyond the cap must not reach the backend")
	assert.Contains(t, prompt, strings.Repeat("x", 100))
}

func TestSummarize_ShortContentUsesClassifierTier(t *testing.T) {
	stub := &stubCompleter{answer: "A list of design and animation libraries."}
	s := New(stub, testLogger())

	result := s.Summarize(context.Background(), "ShadCN, Framer Motion, GSAP")

	require.True(t, result.Attempted)
	assert.True(t, result.Generated)
	assert.Equal(t, "A list of design and animation libraries.", result.Summary)
	assert.Equal(t, classifierModel, stub.lastReq.Model)
	assert.Equal(t, classifierMaxTokens, stub.lastReq.MaxTokens)
}

func TestSummarize_ClassifierNA(t *testing.T) {
	stub := &stubCompleter{answer: "N/A"}
	s := New(stub, testLogger())

	result := s.Summarize(context.Background(), "qwerty zxcvb")

	assert.True(t, result.Attempted)
	assert.False(t, result.Generated)
	assert.Empty(t, result.Summary)
}

func TestSummarize_BackendError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("401 invalid api key")}
	s := New(stub, testLogger())

	result := s.Summarize(context.Background(), longText())

	assert.True(t, result.Attempted)
	assert.False(t, result.Generated)
	assert.Empty(t, result.Summary, "backend errors collapse to empty, never propagate")
}

func TestSummarize_NoClientConfigured(t *testing.T) {
	s := New(nil, testLogger())

	result := s.Summarize(context.Background(), longText())

	assert.False(t, result.Attempted)
	assert.Empty(t, result.Summary)
}

func TestSummarize_EmptyText(t *testing.T) {
	stub := &stubCompleter{answer: "should not be called"}
	s := New(stub, testLogger())

	result := s.Summarize(context.Background(), "   \n ")

	assert.False(t, result.Attempted)
	assert.Zero(t, stub.calls)
}
