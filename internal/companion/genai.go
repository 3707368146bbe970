package companion

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient talks to the Gemini API directly through the official SDK. A client is built
// per call because the key can change at any time from the UI.
type GenAIClient struct {
	baseURL string
}

var _ Gateway = (*GenAIClient)(nil)

// NewGenAIClient returns a direct backend. An empty baseURL uses the SDK default.
func NewGenAIClient(baseURL string) *GenAIClient {
	return &GenAIClient{baseURL: baseURL}
}

var safetyOff = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
}

func (c *GenAIClient) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("companion: create genai client: %w", err)
	}
	return client, nil
}

func (c *GenAIClient) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingKey
	}
	client, err := c.client(ctx, apiKey)
	if err != nil {
		return "", err
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](Temperature),
		MaxOutputTokens: MaxOutputTokens,
		SafetySettings:  safetyOff,
	})
	if err != nil {
		return "", mapGenAIError(err)
	}
	if text := result.Text(); text != "" {
		return text, nil
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", &BlockedError{Reason: string(fb.BlockReason)}
	}
	return "", ErrEmptyResponse
}

func (c *GenAIClient) ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	client, err := c.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	var out []ModelInfo
	for m, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, mapGenAIError(err)
		}
		out = append(out, ModelInfo{ID: modelID(m.Name), DisplayName: m.DisplayName})
	}
	return out, nil
}

func mapGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return statusError(apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("companion: genai: %w", err)
}
