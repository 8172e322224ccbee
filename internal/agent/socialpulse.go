package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llmclient"
)

var socialPulseSchema = json.RawMessage(`{"type":"object","required":["sentiment","themes"],"properties":{"sentiment":{"type":"string","enum":["positive","negative","mixed","muted"]},"themes":{"type":"array","items":{"type":"object","required":["theme","share"],"properties":{"theme":{"type":"string"},"share":{"type":"number"},"example":{"type":"string"}}}}}}`)

// NewSocialPulse summarizes social-media discourse around the story. The
// search is restricted to the social source type and recent posts.
func NewSocialPulse(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindSocialPulse,
		task:   `Summarize current social-media discourse about the article's story: overall sentiment and the 3 to 6 dominant discussion themes with their approximate share of the conversation (shares sum to roughly 1.0). Include a short paraphrased example per theme; do not quote users verbatim or identify individuals.`,
		schema: socialPulseSchema,
		search: func(art article.Context) llmclient.SearchParams {
			return llmclient.SearchParams{
				Enabled:     true,
				SourceTypes: []string{"social"},
				DaysBack:    7,
				MaxResults:  10,
			}
		},
		critique: true,
	}, deps)
}
