// Package interpret turns natural-language contact queries into structured
// filter specifications. Parse is total: any extraction failure degrades to
// a plain keyword spec instead of an error.
package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/halcyon-cloud/contactdex/internal/domain/search/spec"
	"github.com/halcyon-cloud/contactdex/internal/metrics"
)

const systemPrompt = "You are an expert at parsing natural language queries " +
	"into structured search criteria. Always return valid JSON."

const promptTemplate = `Parse this natural language query about contacts and return a JSON object with search criteria:

Query: %q

Return a JSON object with these possible fields:
- "type": "search" (always this for now)
- "filters": object with possible fields:
  - "keyword": string (general keyword search across all fields)
  - "name": string (partial match for first_name or last_name)
  - "email": string (partial match)
  - "job_title": string (partial match)
  - "company": string (partial match)
  - "location": string (partial match)
  - "age_min": integer
  - "age_max": integer
  - "has_pets": boolean
  - "interests": array of strings (interest values to match)
  - "skills": array of strings (skill names to match)
  - "business_needs": string (partial match)
- "explanation": string (brief explanation of what the query is looking for)

Examples:
- "Show me all contacts" -> {"type": "search", "filters": {}, "explanation": "Showing all contacts"}
- "Find people in marketing" -> {"type": "search", "filters": {"job_title": "marketing"}, "explanation": "Looking for contacts with marketing in their job title"}
- "Who has pets in New York?" -> {"type": "search", "filters": {"has_pets": true, "location": "New York"}, "explanation": "Looking for contacts who have pets and are located in New York"}
- "Show me musicians" -> {"type": "search", "filters": {"interests": ["music"], "skills": ["music"]}, "explanation": "Looking for contacts interested in music or with music skills"}
- "Find John" -> {"type": "search", "filters": {"name": "John"}, "explanation": "Looking for contacts named John"}

Return only valid JSON without any additional text or formatting.`

// extraction is the expected model payload.
type extraction struct {
	Type        string          `json:"type"`
	Filters     spec.FilterSpec `json:"filters"`
	Explanation string          `json:"explanation"`
}

// Service parses queries via an optional language-model extractor.
type Service struct {
	extractor Extractor
	logger    *zap.Logger
}

// New creates an interpreter. extractor can be nil; Parse then always
// returns the keyword fallback.
func New(extractor Extractor, logger *zap.Logger) *Service {
	return &Service{extractor: extractor, logger: logger}
}

// Parse extracts a filter spec from the query. It never fails: when the
// extractor is absent, errors, or returns unusable output, the result is a
// keyword spec over the raw query.
func (s *Service) Parse(ctx context.Context, query string) spec.Parsed {
	if s.extractor == nil {
		metrics.FilterExtractionsTotal.WithLabelValues("fallback").Inc()
		return spec.Keyword(query)
	}

	raw, err := s.extractor.Extract(ctx, systemPrompt, fmt.Sprintf(promptTemplate, query))
	if err != nil {
		s.logger.Warn("Query extraction failed, using keyword fallback",
			zap.String("query", query), zap.Error(err))
		metrics.FilterExtractionsTotal.WithLabelValues("fallback").Inc()
		return spec.Keyword(query)
	}

	var payload extraction
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		s.logger.Warn("Unparseable extraction payload, using keyword fallback",
			zap.String("query", query), zap.Error(err))
		metrics.FilterExtractionsTotal.WithLabelValues("fallback").Inc()
		return spec.Keyword(query)
	}

	metrics.FilterExtractionsTotal.WithLabelValues("llm").Inc()
	return spec.Parsed{Filters: payload.Filters, Explanation: payload.Explanation}
}

// stripCodeFence removes markdown code fences the model sometimes wraps
// its JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
