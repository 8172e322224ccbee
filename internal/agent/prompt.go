package agent

import (
	"encoding/json"
	"strings"

	"newslens/internal/article"
)

const systemPreamble = `You are a careful news-analysis assistant. You augment a news article with one specific analysis. You are rigorous, neutral, and you never fabricate facts, quotes, numbers, or sources.`

const guardrails = `Rules:
- Cite a source URL for every externally sourced claim.
- If you cannot verify something, say so explicitly instead of guessing.
- Respond in the article's language.
- Output a single JSON value and nothing else: no prose, no markdown fences.`

// buildPrompt assembles the shared envelope every kind agent uses: preamble,
// guardrails, article block, kind-specific task, and the JSON schema the
// reply must satisfy.
func buildPrompt(art article.Context, task string, schema json.RawMessage) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\n")
	b.WriteString(guardrails)
	b.WriteString("\n\n[ARTICLE]\n")
	if art.SourceURL != "" {
		b.WriteString("Source: " + art.SourceURL + "\n")
	}
	if art.Language != "" {
		b.WriteString("Language: " + art.Language + "\n")
	}
	if len(art.Topics) > 0 {
		b.WriteString("Topics: " + strings.Join(art.Topics, ", ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(art.Text)
	b.WriteString("\n\n[TASK]\n")
	b.WriteString(task)
	b.WriteString("\n\n[OUTPUT]\nRespond with a single JSON object matching this schema:\n")
	b.Write(schema)
	return b.String()
}
