package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikey/smart-reply/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Polisher is an implementation of the DraftPolisher interface using OpenAI
type Polisher struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// polishResponse represents the structured response from the model
type polishResponse struct {
	ReplyText string `json:"reply_text"`
}

// NewPolisher creates a new OpenAI draft polisher
func NewPolisher(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Polisher {
	client := openai.NewClient(apiKey)

	return &Polisher{
		client:       client,
		modelName:    modelName,
		maxTokens:    maxTokens,
		temperature:  temperature,
		topP:         topP,
		logger:       logger,
		promptFormat: polishPromptFormat,
	}
}

const polishPromptFormat = `You are an email writing assistant. Rewrite the following reply draft so it reads naturally and fluently.
Strict rules:
- Keep every commitment, name, topic, and timeframe exactly as written
- Do not add new promises, facts, or timeframes
- Keep the greeting and sign-off structure
Respond with a JSON object containing:
- reply_text: string (the rewritten reply)

Context:
Topic: %s
Deadlines: %s

Draft:
%s

Respond only with the JSON object and nothing else.`

// PolishDraft rewrites a draft for fluency without changing its commitments
func (p *Polisher) PolishDraft(ctx context.Context, draft string, extracted *core.ExtractedContext) (string, error) {
	prompt := fmt.Sprintf(p.promptFormat, extracted.MainTopic, joinOrNone(extracted.Deadlines), draft)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		TopP:        p.topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	polished, err := parsePolishResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}

	p.logger.Debug("Polished draft with OpenAI",
		zap.String("model", p.modelName),
		zap.String("processing_id", resp.ID))

	return polished, nil
}

// parsePolishResponse parses the model output, tolerating prose around
// the JSON object
func parsePolishResponse(responseText string) (string, error) {
	var polish polishResponse
	if err := json.Unmarshal([]byte(responseText), &polish); err != nil {
		// Try to extract JSON from the text response
		jsonStart := 0
		jsonEnd := len(responseText)

		// Find JSON start
		for i := 0; i < len(responseText); i++ {
			if responseText[i] == '{' {
				jsonStart = i
				break
			}
		}

		// Find JSON end
		for i := len(responseText) - 1; i >= 0; i-- {
			if responseText[i] == '}' {
				jsonEnd = i + 1
				break
			}
		}

		if jsonStart < jsonEnd {
			jsonStr := responseText[jsonStart:jsonEnd]
			if err := json.Unmarshal([]byte(jsonStr), &polish); err != nil {
				return "", fmt.Errorf("failed to parse model response as JSON: %w", err)
			}
		} else {
			return "", fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
	}

	if polish.ReplyText == "" {
		return "", fmt.Errorf("model response carried no reply text")
	}
	return polish.ReplyText, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	out := items[0]
	for _, item := range items[1:] {
		out += ", " + item
	}
	return out
}
