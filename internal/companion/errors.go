package companion

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingKey    = errors.New("companion: api key is required")
	ErrBusy          = errors.New("companion: a request is already in flight")
	ErrInvalidAPIKey = errors.New("companion: api key not valid")
	ErrQuotaExceeded = errors.New("companion: quota exceeded")
	ErrEmptyResponse = errors.New("companion: empty response")
)

// HTTPError is a non-success upstream status that has no more specific meaning.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("companion: upstream status %d", e.Status)
	}
	return fmt.Sprintf("companion: upstream status %d: %s", e.Status, e.Message)
}

// BlockedError means the model refused the prompt.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("companion: prompt blocked: %s", e.Reason)
}

// UserMessage turns a gateway failure into the line the companion says instead of a remark.
func UserMessage(err error) string {
	var httpErr *HTTPError
	var blocked *BlockedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingKey):
		return "I need a valid API key to speak."
	case errors.Is(err, ErrBusy):
		return "Patience. I'm still thinking about the last thing you did."
	case errors.Is(err, ErrInvalidAPIKey):
		return "My connection is fuzzy... your API key seems invalid. Please check it."
	case errors.Is(err, ErrQuotaExceeded):
		return "I'm thinking too hard! API quota exceeded. Try again later."
	case errors.As(err, &blocked):
		return fmt.Sprintf("I can't respond to that. (Reason: %s)", blocked.Reason)
	case errors.Is(err, ErrEmptyResponse):
		return "I'm a bit speechless right now..."
	case errors.As(err, &httpErr):
		if httpErr.Message == "" {
			return fmt.Sprintf("API Error: %d.", httpErr.Status)
		}
		return fmt.Sprintf("API Error: %d. %s", httpErr.Status, httpErr.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return "You kept me waiting too long. Try again in a moment."
	default:
		return "Oops! I couldn't connect to my thoughts."
	}
}
