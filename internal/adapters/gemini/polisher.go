package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Polisher is an implementation of the DraftPolisher interface using
// Google Gemini
type Polisher struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	logger       *zap.Logger
	promptFormat string
}

// polishResponse represents the structured response from the model
type polishResponse struct {
	ReplyText string `json:"reply_text"`
}

// NewPolisher creates a new Gemini draft polisher
func NewPolisher(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*Polisher, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Polisher{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
		promptFormat: `You are an email writing assistant. Rewrite the following reply draft so it reads naturally and fluently.
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

Respond only with the JSON object and nothing else.`,
	}, nil
}

// PolishDraft rewrites a draft for fluency without changing its commitments
func (p *Polisher) PolishDraft(ctx context.Context, draft string, extracted *core.ExtractedContext) (string, error) {
	deadlines := "none"
	if len(extracted.Deadlines) > 0 {
		deadlines = strings.Join(extracted.Deadlines, ", ")
	}
	prompt := fmt.Sprintf(p.promptFormat, extracted.MainTopic, deadlines, draft)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText += string(text)
		}
	}

	polished, err := parsePolishResponse(responseText)
	if err != nil {
		return "", err
	}

	p.logger.Debug("Polished draft with Gemini", zap.String("model", p.modelName))
	return polished, nil
}

// Close releases the underlying API client
func (p *Polisher) Close() error {
	return p.client.Close()
}

// parsePolishResponse parses the model output, tolerating prose around
// the JSON object
func parsePolishResponse(responseText string) (string, error) {
	var polish polishResponse
	if err := json.Unmarshal([]byte(responseText), &polish); err != nil {
		jsonStart := strings.IndexByte(responseText, '{')
		jsonEnd := strings.LastIndexByte(responseText, '}') + 1
		if jsonStart < 0 || jsonStart >= jsonEnd {
			return "", fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &polish); err != nil {
			return "", fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}
	if polish.ReplyText == "" {
		return "", fmt.Errorf("model response carried no reply text")
	}
	return polish.ReplyText, nil
}
