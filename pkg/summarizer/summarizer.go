// Package summarizer turns extracted page text into a short natural
// language summary via a chat-completion backend. It never surfaces a
// backend failure to its caller: every error path collapses to an empty
// summary, logged.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/linklens/ai-engine/models"
)

const (
	// minContentLength separates the full-summary tier from the
	// fragment-classifier tier.
	minContentLength = 250

	// maxPromptChars caps how much page text is sent to the backend.
	maxPromptChars = 12000

	summaryModel       = openai.GPT4o
	summaryTemperature = 0.2
	summaryMaxTokens   = 150

	classifierModel       = openai.GPT3Dot5Turbo
	classifierTemperature = 0.1
	classifierMaxTokens   = 50
)

// ChatCompleter is the slice of the OpenAI client the summarizer needs.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Summarizer struct {
	client ChatCompleter
	log    logrus.FieldLogger
}

// New builds a Summarizer. A nil client is valid and means no backend is
// configured; every Summarize call then reports Attempted=false.
func New(client ChatCompleter, log logrus.FieldLogger) *Summarizer {
	return &Summarizer{
		client: client,
		log:    log.WithField("component", "summarizer"),
	}
}

// Summarize generates a summary for text using a tiered strategy: long
// content gets a full 2-3 sentence summary from the high-capability
// model, short fragments get a cheap classification pass. Backend
// failures of any kind resolve to an empty summary.
func (s *Summarizer) Summarize(ctx context.Context, text string) models.SummaryResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.SummaryResult{}
	}
	if s.client == nil {
		s.log.Warn("no chat-completion client configured, skipping summary")
		return models.SummaryResult{}
	}

	if len(text) >= minContentLength {
		return s.fullSummary(ctx, text)
	}
	return s.classifyFragment(ctx, text)
}

func (s *Summarizer) fullSummary(ctx context.Context, text string) models.SummaryResult {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	content, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: summaryModel,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(summaryPromptTemplate, text),
		}},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		s.log.WithError(err).Error("full summarization failed, returning empty")
		return models.SummaryResult{Attempted: true}
	}

	return models.SummaryResult{
		Summary:   content,
		Attempted: true,
		Generated: content != "",
	}
}

func (s *Summarizer) classifyFragment(ctx context.Context, text string) models.SummaryResult {
	content, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: classifierModel,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(classifierPromptTemplate, text),
		}},
		Temperature: classifierTemperature,
		MaxTokens:   classifierMaxTokens,
	})
	if err != nil {
		s.log.WithError(err).Error("fragment classification failed, returning empty")
		return models.SummaryResult{Attempted: true}
	}

	// The classifier answers "N/A" when the fragment carries no usable
	// signal; that is the same as no summary.
	if content == "" || strings.Contains(content, "N/A") {
		s.log.Info("fragment classification returned no usable summary")
		return models.SummaryResult{Attempted: true}
	}

	return models.SummaryResult{
		Summary:   content,
		Attempted: true,
		Generated: true,
	}
}

func (s *Summarizer) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
