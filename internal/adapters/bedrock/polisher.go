package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// Polisher is an implementation of the DraftPolisher interface using
// Amazon Bedrock
type Polisher struct {
	client       *bedrockruntime.Client
	modelID      string
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

// NewPolisher creates a new Bedrock draft polisher
func NewPolisher(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Polisher {
	return &Polisher{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
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
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (p *Polisher) isAnthropicModel() bool {
	return strings.Contains(strings.ToLower(p.modelID), "anthropic")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (p *Polisher) isAmazonTitanModel() bool {
	return strings.Contains(strings.ToLower(p.modelID), "titan")
}

// PolishDraft rewrites a draft for fluency without changing its commitments
func (p *Polisher) PolishDraft(ctx context.Context, draft string, extracted *core.ExtractedContext) (string, error) {
	deadlines := "none"
	if len(extracted.Deadlines) > 0 {
		deadlines = strings.Join(extracted.Deadlines, ", ")
	}
	prompt := fmt.Sprintf(p.promptFormat, extracted.MainTopic, deadlines, draft)

	// Create the request based on the model
	var payload []byte
	var err error

	if p.isAnthropicModel() {
		// Anthropic Claude models
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": p.maxTokens,
			"temperature":          p.temperature,
			"top_p":                p.topP,
		})
	} else if p.isAmazonTitanModel() {
		// Amazon Titan models
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": p.maxTokens,
				"temperature":   p.temperature,
				"topP":          p.topP,
			},
		})
	} else {
		// Default to a generic format
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  p.maxTokens,
			"temperature": p.temperature,
			"top_p":       p.topP,
		})
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	// Call Bedrock API
	resp, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &p.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := p.responseText(resp.Body)
	if err != nil {
		return "", err
	}

	polished, err := parsePolishResponse(responseText)
	if err != nil {
		return "", err
	}

	p.logger.Debug("Polished draft with Bedrock", zap.String("model", p.modelID))
	return polished, nil
}

// responseText extracts the generated text from the model-specific
// response envelope
func (p *Polisher) responseText(body []byte) (string, error) {
	if p.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}
	if p.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	// Try a generic approach
	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	if genericResp.Output != "" {
		return genericResp.Output, nil
	}
	if genericResp.Text != "" {
		return genericResp.Text, nil
	}
	if genericResp.Response != "" {
		return genericResp.Response, nil
	}
	// Just use the raw response as a string
	return string(body), nil
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
