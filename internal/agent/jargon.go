package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
)

var jargonSchema = json.RawMessage(`{"type":"object","required":["terms"],"properties":{"terms":{"type":"array","items":{"type":"object","required":["term","definition"],"properties":{"term":{"type":"string"},"definition":{"type":"string"}}}}}}`)

// NewJargon explains specialist terminology in plain language. It is a core
// kind: cheap, no live search, no critique pass.
func NewJargon(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindJargon,
		task:   `Identify up to 10 specialist, technical, or ambiguous terms in the article that a general reader may not know. For each, give a one- or two-sentence plain-language definition in the context the article uses it. Skip common words.`,
		schema: jargonSchema,
	}, deps)
}
