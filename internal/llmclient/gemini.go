package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API call itself; retries, rate limiting, logging and
// payload validation are applied via middleware.
type GeminiClient struct {
	cli *genai.Client
}

// NewGeminiClient builds a client against the Gemini API backend. The API
// key is read from the environment by the genai SDK (GEMINI_API_KEY).
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }
func (g *GeminiClient) Close() error { return nil }

// CompleteJSON asks for application/json output and returns the model's JSON
// together with grounding citations and token usage.
func (g *GeminiClient) CompleteJSON(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, NewPermanentError(fmt.Errorf("gemini: model is required"))
	}

	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Search.Enabled {
		// Search grounding and a forced JSON MIME type are mutually
		// exclusive on the Gemini API; grounded calls rely on the prompt's
		// JSON envelope instead.
		cfg.ResponseMIMEType = ""
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}

	prompt := req.Prompt + searchDirectives(req.Search)
	resp, err := g.cli.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrInvalidJSON
	}

	out := &Response{JSON: json.RawMessage(stripFences(resp.Candidates[0].Content.Parts[0].Text))}
	if um := resp.UsageMetadata; um != nil {
		out.Usage = Usage{
			InputTokens:  int(um.PromptTokenCount),
			OutputTokens: int(um.CandidatesTokenCount),
			TotalTokens:  int(um.TotalTokenCount),
		}
	}
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				out.Citations = append(out.Citations, chunk.Web.URI)
			}
		}
	}
	return out, nil
}

// searchDirectives renders SearchParams as prompt instructions; the Gemini
// search tool takes no structured filters.
func searchDirectives(p SearchParams) string {
	if !p.Enabled {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\n[SEARCH RULES]\n")
	if len(p.SourceTypes) > 0 {
		b.WriteString("- Only use sources of these types: " + strings.Join(p.SourceTypes, ", ") + ".\n")
	}
	if len(p.ExcludeDomains) > 0 {
		b.WriteString("- Never use or cite these domains: " + strings.Join(p.ExcludeDomains, ", ") + ".\n")
	}
	if p.DaysBack > 0 {
		b.WriteString("- Prefer sources published within the last " + strconv.Itoa(p.DaysBack) + " days.\n")
	}
	if p.MaxResults > 0 {
		b.WriteString("- Draw on at most " + strconv.Itoa(p.MaxResults) + " distinct sources.\n")
	}
	return b.String()
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
