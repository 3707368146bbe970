package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxResponseBytes = 1 << 20

// ProxyClient calls the proxy endpoint that forwards prompts to the generative-language API.
type ProxyClient struct {
	generateURL string
	modelsURL   string
	http        *http.Client
}

var _ Gateway = (*ProxyClient)(nil)

func NewProxyClient(generateURL, modelsURL string, client *http.Client) *ProxyClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyClient{generateURL: generateURL, modelsURL: modelsURL, http: client}
}

type proxyRequest struct {
	APIKey string `json:"apiKey"`
	Prompt string `json:"prompt,omitempty"`
	Model  string `json:"model,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type modelsResponse struct {
	Models []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"models"`
}

func (c *ProxyClient) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingKey
	}
	var out generateResponse
	if err := c.post(ctx, c.generateURL, proxyRequest{APIKey: apiKey, Prompt: prompt, Model: model}, &out); err != nil {
		return "", err
	}

	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, part := range out.Candidates[0].Content.Parts {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	switch {
	case text != "":
		return text, nil
	case out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "":
		return "", &BlockedError{Reason: out.PromptFeedback.BlockReason}
	default:
		return "", ErrEmptyResponse
	}
}

func (c *ProxyClient) ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	if c.modelsURL == "" {
		return nil, errors.New("companion: model listing endpoint not configured")
	}
	var out modelsResponse
	if err := c.post(ctx, c.modelsURL, proxyRequest{APIKey: apiKey}, &out); err != nil {
		return nil, err
	}
	models := make([]ModelInfo, 0, len(out.Models))
	for _, m := range out.Models {
		models = append(models, ModelInfo{ID: modelID(m.Name), DisplayName: m.DisplayName})
	}
	return models, nil
}

func (c *ProxyClient) post(ctx context.Context, url string, body proxyRequest, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("companion: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("companion: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("companion: request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("companion: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, errorMessage(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("companion: decode response: %w", err)
	}
	return nil
}

// statusError classifies a non-success status the same way for every backend.
func statusError(status int, message string) error {
	switch {
	case status == http.StatusBadRequest && strings.Contains(message, "API key not valid"):
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, message)
	case status == http.StatusTooManyRequests:
		if message == "" {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, message)
	default:
		return &HTTPError{Status: status, Message: message}
	}
}

// errorMessage reads {"error":{"message":...}} or {"error":"..."}, falling back to the raw body.
func errorMessage(raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(envelope.Error, &flat); err == nil {
			return flat
		}
	}
	return strings.TrimSpace(string(raw))
}
