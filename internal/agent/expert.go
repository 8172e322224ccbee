package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llmclient"
)

var expertSchema = json.RawMessage(`{"type":"object","required":["opinions"],"properties":{"opinions":{"type":"array","items":{"type":"object","required":["expert","field","summary"],"properties":{"expert":{"type":"string"},"field":{"type":"string"},"summary":{"type":"string"},"source_url":{"type":"string"}}}}}}`)

// NewExpert collects published expert commentary on the article's subject.
// Only real, attributable people with a verifiable source qualify.
func NewExpert(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindExpert,
		task:   `Find published commentary from 2 to 4 named domain experts on the article's subject. For each: name, field, and a 2-3 sentence summary of their position with the source URL. Only include real, attributable people; never invent an expert.`,
		schema: expertSchema,
		search: func(art article.Context) llmclient.SearchParams {
			return llmclient.SearchParams{
				Enabled:        true,
				SourceTypes:    []string{"news", "academic"},
				ExcludeDomains: excludeSource(art),
				MaxResults:     8,
			}
		},
		critique: true,
	}, deps)
}
