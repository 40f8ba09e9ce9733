package llm

import (
	"context"
	"fmt"

	"github.com/accordia/accordia-backend/internal/config"
)

// Provider is the summarization oracle: plain text in, plain text out.
// No streaming, no function-calling; callers own all structure extraction
// from the returned text. Retries, if any, also belong to callers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces a completion for a single prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewProvider builds a provider from configuration
func NewProvider(cfg config.OracleConfig) (Provider, error) {
	switch cfg.Type {
	case "openai", "":
		return NewOpenAIProvider(cfg)
	case "stub":
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider type: %q", cfg.Type)
	}
}
