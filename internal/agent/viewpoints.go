package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llmclient"
)

var viewpointsSchema = json.RawMessage(`{"type":"object","required":["viewpoints"],"properties":{"viewpoints":{"type":"array","items":{"type":"object","required":["stance","summary","source_url"],"properties":{"stance":{"type":"string"},"summary":{"type":"string"},"source_url":{"type":"string"}}}}}}`)

// NewViewpoints surfaces how other outlets cover the same story. The search
// excludes the article's own domain so the agent cannot cite the very
// article it is contextualizing.
func NewViewpoints(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindViewpoints,
		task:   `Find 3 to 5 alternative viewpoints on the article's main story from other outlets: supporting, opposing, and differently framed coverage. Summarize each stance in 2-3 sentences with its source URL.`,
		schema: viewpointsSchema,
		search: func(art article.Context) llmclient.SearchParams {
			return llmclient.SearchParams{
				Enabled:        true,
				SourceTypes:    []string{"news"},
				ExcludeDomains: excludeSource(art),
				MaxResults:     8,
			}
		},
		critique: true,
	}, deps)
}

func excludeSource(art article.Context) []string {
	if art.SourceDomain == "" {
		return nil
	}
	return []string{art.SourceDomain}
}
