package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llmclient"
)

var timelineSchema = json.RawMessage(`{"type":"object","required":["events"],"properties":{"events":{"type":"array","items":{"type":"object","required":["date","summary"],"properties":{"date":{"type":"string"},"summary":{"type":"string"},"source_url":{"type":"string"}}}}}}`)

// NewTimeline reconstructs how the story developed over time.
func NewTimeline(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindTimeline,
		task:   `Build a chronological timeline of the events behind the article's story: key developments before and up to the article, dated as precisely as sources allow (ISO dates where possible). 5 to 12 events, each summarized in one or two sentences with a source URL when externally sourced.`,
		schema: timelineSchema,
		search: func(art article.Context) llmclient.SearchParams {
			return llmclient.SearchParams{
				Enabled:     true,
				SourceTypes: []string{"news"},
				DaysBack:    365 * 3,
				MaxResults:  10,
			}
		},
		critique: true,
	}, deps)
}
