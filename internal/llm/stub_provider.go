package llm

import "context"

// StubProvider returns a canned structured response. Useful for local
// development and wiring tests without an API key.
type StubProvider struct{}

// NewStubProvider creates a new stub provider
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

// Name returns the provider name
func (s *StubProvider) Name() string {
	return "stub"
}

// Generate returns a fixed, well-formed summarization payload
func (s *StubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return `{
  "summary": "The parties exchanged positions on the disputed matter. No binding agreement has been reached yet.",
  "keyPoints": ["Positions were exchanged"],
  "agreements": [],
  "disagreements": ["Core claim remains contested"],
  "tone": "neutral",
  "progress": "Discussion is ongoing without a concrete settlement proposal."
}`, nil
}
