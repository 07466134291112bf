// Package llm abstracts the model providers used to generate landing
// page copy and imagery.
package llm

import (
	"context"
	"errors"
)

// ErrNoImageSupport is returned by providers that cannot generate
// images. Callers skip image generation and keep the text content.
var ErrNoImageSupport = errors.New("provider does not support image generation")

// Provider generates text completions.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// GenerateImage renders one image for a prompt, or returns
	// ErrNoImageSupport.
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
	// Name returns the provider's name.
	Name() string
}
