package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llmclient"
)

var factCheckSchema = json.RawMessage(`{"type":"object","required":["claims"],"properties":{"claims":{"type":"array","items":{"type":"object","required":["claim","verdict","explanation"],"properties":{"claim":{"type":"string"},"verdict":{"type":"string","enum":["supported","contradicted","unverified"]},"explanation":{"type":"string"},"source_urls":{"type":"array","items":{"type":"string"}}}}}}}`)

// NewFactCheck verifies the article's central checkable claims against live
// sources. Unverifiable claims must be reported as such, e.g. "Could not
// verify this claim — no reliable sources found", never silently dropped.
func NewFactCheck(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind:   analysis.KindFactCheck,
		task:   `Extract the 3 to 5 most consequential checkable factual claims from the article. Verify each against independent sources. Verdicts: "supported", "contradicted", or "unverified". Explain each verdict in 2-3 sentences and list the source URLs you relied on.`,
		schema: factCheckSchema,
		search: func(art article.Context) llmclient.SearchParams {
			return llmclient.SearchParams{
				Enabled:        true,
				SourceTypes:    []string{"news", "factcheck"},
				ExcludeDomains: excludeSource(art),
				MaxResults:     10,
			}
		},
		critique: true,
	}, deps)
}
