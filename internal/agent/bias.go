package agent

import (
	"encoding/json"

	"newslens/internal/analysis"
)

var biasSchema = json.RawMessage(`{"type":"object","required":["overall","confidence","indicators"],"properties":{"overall":{"type":"string","enum":["left","center-left","center","center-right","right","unclear"]},"confidence":{"type":"number"},"indicators":{"type":"array","items":{"type":"object","required":["quote","explanation"],"properties":{"quote":{"type":"string"},"explanation":{"type":"string"}}}}}}`)

// NewBias assesses framing and loaded language in the text itself; it needs
// no live search.
func NewBias(deps Deps) Agent {
	return newKindAgent(promptSpec{
		kind: analysis.KindBias,
		task: `Assess the article's political and framing bias from its own text: word choice, sourcing balance, what is emphasized or omitted. Give an overall placement, a confidence between 0 and 1, and quote up to 5 concrete passages with an explanation of what each indicates. Judge only the text, not the outlet's reputation.`,
		schema:   biasSchema,
		critique: true,
	}, deps)
}
