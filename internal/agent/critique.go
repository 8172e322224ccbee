package agent

import (
	"context"
	"encoding/json"
	"strings"

	"newslens/internal/analysis"
	"newslens/internal/llmclient"
	"newslens/internal/usage"
)

var critiqueSchema = json.RawMessage(`{"type":"object","required":["ok"],"properties":{"ok":{"type":"boolean"},"defects":{"type":"array","items":{"type":"string"}}}}`)

const critiqueTask = `You are reviewing another model's JSON output against its schema and citation rules. Check:
- every field the schema requires is present and plausibly filled
- no fabricated-looking sources; cited URLs are well-formed
- the content actually answers the task, not a paraphrase of the article
Reply {"ok": true, "defects": []} if acceptable, otherwise {"ok": false, "defects": ["..."]} listing each concrete defect.`

// critique runs the cheap self-check pass over a structured result. An empty
// slice means the result passed. The pass is advisory: a good result is
// never failed because the checker itself was unavailable.
func (a *kindAgent) critique(ctx context.Context, resp *llmclient.Response, total *analysis.TokenUsage) []string {
	if !a.spec.critique {
		return nil
	}
	choice := a.deps.Catalog.CritiqueChoice()

	var b strings.Builder
	b.WriteString(critiqueTask)
	b.WriteString("\n\n[SCHEMA]\n")
	b.Write(a.spec.schema)
	b.WriteString("\n\n[OUTPUT UNDER REVIEW]\n")
	b.Write(resp.JSON)
	if len(resp.Citations) > 0 {
		b.WriteString("\n\n[CITED SOURCES]\n")
		b.WriteString(strings.Join(resp.Citations, "\n"))
	}

	out, err := a.deps.Client.CompleteJSON(llmclient.WithTask(ctx, "critique"), llmclient.Request{
		Model:     choice.Model,
		MaxTokens: 1024,
		Prompt:    b.String(),
		Schema:    critiqueSchema,
	})
	if err != nil {
		return nil
	}
	total.Add(tokenUsage(out.Usage))
	a.deps.Usage.Record(usage.Event{
		Kind:    a.spec.kind,
		Model:   choice.Model,
		Tokens:  tokenUsage(out.Usage),
		Purpose: usage.PurposeCritique,
	})

	var verdict struct {
		OK      bool     `json:"ok"`
		Defects []string `json:"defects"`
	}
	if json.Unmarshal(out.JSON, &verdict) != nil || verdict.OK {
		return nil
	}
	if len(verdict.Defects) == 0 {
		verdict.Defects = []string{"unspecified defect"}
	}
	return verdict.Defects
}
