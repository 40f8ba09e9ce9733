package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/accordia/accordia-backend/internal/models"
)

// oracleResponse is the structured payload the prompt demands from the
// summarization oracle.
type oracleResponse struct {
	Summary       string   `json:"summary"`
	KeyPoints     []string `json:"keyPoints"`
	Agreements    []string `json:"agreements"`
	Disagreements []string `json:"disagreements"`
	Tone          string   `json:"tone"`
	Progress      string   `json:"progress"`
}

const maxKeyPoints = 5

// parseOracleResponse extracts the first balanced JSON object from the raw
// oracle text and decodes it. The oracle is not guaranteed to return only
// JSON; it routinely wraps the object in prose. A malformed payload is never
// partially trusted: any structural failure returns ErrMalformedResponse.
func parseOracleResponse(raw string) (*oracleResponse, error) {
	span, ok := extractJSONObject(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var resp oracleResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.TrimSpace(resp.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary text", ErrMalformedResponse)
	}

	if len(resp.KeyPoints) > maxKeyPoints {
		resp.KeyPoints = resp.KeyPoints[:maxKeyPoints]
	}
	if resp.KeyPoints == nil {
		resp.KeyPoints = []string{}
	}

	// An unrecognized tone is treated like an absent one. The enumeration in
	// the prompt is advisory; only structural problems fail the parse.
	if !models.ValidTone(models.Tone(resp.Tone)) {
		resp.Tone = string(models.ToneNeutral)
	}

	return &resp, nil
}

// extractJSONObject returns the first balanced {...} span in s, tracking
// string literals and escapes so braces inside quoted text do not count.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
