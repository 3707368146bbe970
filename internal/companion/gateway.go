// Package companion talks to the generative model behind the AI companion and delivers her
// remarks back to the UI.
package companion

import (
	"context"
	"strings"
)

// Gateway generates text for a prompt. Implementations map upstream failures onto the
// errors of this package.
type Gateway interface {
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
	ListModels(ctx context.Context, apiKey string) ([]ModelInfo, error)
}

type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Generation settings shared by every backend.
const (
	Temperature     = 0.7
	MaxOutputTokens = 380
)

// StripSpeaker removes a leading "Name:" the model sometimes echoes from the prompt.
func StripSpeaker(text, name string) string {
	text = strings.TrimSpace(text)
	if name == "" || len(text) < len(name) || !strings.EqualFold(text[:len(name)], name) {
		return text
	}
	rest := text[len(name):]
	if rest != "" && rest[0] != ':' && rest[0] != ' ' && rest[0] != '\n' {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
}

func modelID(name string) string {
	return strings.TrimPrefix(name, "models/")
}
