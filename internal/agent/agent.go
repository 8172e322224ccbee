package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/llm"
	"newslens/internal/llmclient"
	"newslens/internal/usage"
)

// Agent produces one analysis kind's result for an article. Execute always
// returns a complete result: Success, PartialSuccess with the best available
// payload, or Failed with a user-displayable reason. It never panics a
// sibling kind off the request.
type Agent interface {
	Kind() analysis.Kind
	Execute(ctx context.Context, art article.Context) analysis.Result
}

// Deps are the shared collaborators handed to every kind agent at
// construction time.
type Deps struct {
	Client  llmclient.Client
	Catalog *llm.Catalog
	Usage   usage.Recorder
	Log     *log.Logger
	// MaxQualityRetries bounds the self-critique retry loop per kind.
	// 0 means the default of one retry; negative disables retries.
	MaxQualityRetries int
}

func (d Deps) maxRetries() int {
	if d.MaxQualityRetries == 0 {
		return 1
	}
	if d.MaxQualityRetries < 0 {
		return 0
	}
	return d.MaxQualityRetries
}

// NewRegistry builds the immutable kind→agent table used by the
// coordinator. It is constructed once at startup and only read afterwards.
func NewRegistry(deps Deps) map[analysis.Kind]Agent {
	if deps.Catalog == nil {
		deps.Catalog = llm.DefaultCatalog()
	}
	if deps.Usage == nil {
		deps.Usage = usage.Nop{}
	}
	if deps.Log == nil {
		deps.Log = log.Default()
	}
	agents := []Agent{
		NewJargon(deps),
		NewViewpoints(deps),
		NewFactCheck(deps),
		NewBias(deps),
		NewTimeline(deps),
		NewExpert(deps),
		NewSocialPulse(deps),
	}
	m := make(map[analysis.Kind]Agent, len(agents))
	for _, a := range agents {
		m[a.Kind()] = a
	}
	return m
}

// promptSpec is the per-kind configuration: task instructions, output
// schema, search parameters, and whether the result earns a critique pass.
type promptSpec struct {
	kind     analysis.Kind
	task     string
	schema   json.RawMessage
	search   func(art article.Context) llmclient.SearchParams
	critique bool
}

// kindAgent is the shared implementation behind every kind. Per-kind
// constructors only differ in their promptSpec.
type kindAgent struct {
	spec promptSpec
	deps Deps
}

func newKindAgent(spec promptSpec, deps Deps) *kindAgent {
	return &kindAgent{spec: spec, deps: deps}
}

func (a *kindAgent) Kind() analysis.Kind { return a.spec.kind }

// Execute runs the kind's LLM call plus its quality-control loop: at most
// maxRetries re-invocations, each with an escalated model choice. The retry
// attempt is strictly sequential after the critique verdict.
func (a *kindAgent) Execute(ctx context.Context, art article.Context) analysis.Result {
	start := time.Now()
	tier := analysis.TierFrom(ctx)
	ctx = llmclient.WithTask(ctx, string(a.spec.kind))

	res := analysis.Result{Kind: a.spec.kind, Status: analysis.StatusFailed}
	maxRetries := a.deps.maxRetries()

	for attempt := 0; ; attempt++ {
		choice := a.deps.Catalog.Select(a.spec.kind, tier, art.WordCount(), attempt)
		resp, err := a.complete(ctx, art, choice, attempt)
		if resp != nil {
			res.Usage.Add(tokenUsage(resp.Usage))
		}
		if err != nil {
			if ctx.Err() != nil {
				res.Reason = analysis.ReasonDeadlineExceeded
				break
			}
			if errors.Is(err, llmclient.ErrInvalidJSON) && attempt < maxRetries {
				res.Retries++
				continue
			}
			res.Reason = failureReason(err)
			break
		}

		defects := a.critique(ctx, resp, &res.Usage)
		if len(defects) == 0 {
			res.Status = analysis.StatusSuccess
			res.Payload = resp.JSON
			res.Citations = resp.Citations
			break
		}
		if attempt < maxRetries {
			res.Retries++
			continue
		}
		// Retry budget exhausted: return the best available output,
		// annotated rather than dropped.
		res.Status = analysis.StatusPartialSuccess
		res.Payload = resp.JSON
		res.Citations = resp.Citations
		res.Reason = "quality check: " + strings.Join(defects, "; ")
		break
	}

	res.Elapsed = time.Since(start)
	a.deps.Log.Printf("agent kind=%s status=%s retries=%d tokens=%d elapsed=%s",
		a.spec.kind, res.Status, res.Retries, res.Usage.Total, res.Elapsed.Round(time.Millisecond))
	return res
}

// complete performs one provider call with the chosen model and records the
// usage event, tagged so quota accounting never double-charges retries.
func (a *kindAgent) complete(ctx context.Context, art article.Context, choice llm.Choice, attempt int) (*llmclient.Response, error) {
	search := llmclient.SearchParams{}
	if a.spec.search != nil {
		search = a.spec.search(art)
	}
	if !choice.SupportsLiveSearch {
		search = llmclient.SearchParams{}
	}
	req := llmclient.Request{
		Model:     choice.Model,
		MaxTokens: choice.MaxTokens,
		Prompt:    buildPrompt(art, a.spec.task, a.spec.schema),
		Schema:    a.spec.schema,
		Search:    search,
	}
	resp, err := a.deps.Client.CompleteJSON(ctx, req)
	if resp != nil {
		// A response means the provider call completed and consumed tokens,
		// even when a middleware rejected the payload. Record it so the
		// caller can debit the initial call regardless of outcome.
		purpose := usage.PurposeInitial
		if attempt > 0 {
			purpose = usage.PurposeRetry
		}
		a.deps.Usage.Record(usage.Event{
			Kind:    a.spec.kind,
			Model:   choice.Model,
			Tokens:  tokenUsage(resp.Usage),
			Purpose: purpose,
		})
	}
	if err != nil {
		return resp, err
	}
	// The client stack may or may not include the validation middleware;
	// check the shape here so the quality loop sees schema violations either
	// way.
	if shapeErr := llm.CheckShape(resp.JSON, a.spec.schema); shapeErr != nil {
		return resp, shapeErr
	}
	return resp, nil
}

func tokenUsage(u llmclient.Usage) analysis.TokenUsage {
	return analysis.TokenUsage{Input: u.InputTokens, Output: u.OutputTokens, Total: u.TotalTokens}
}

// failureReason maps an adapter error onto a reason string suitable for
// direct display to an end user.
func failureReason(err error) string {
	switch {
	case errors.Is(err, llmclient.ErrInvalidJSON):
		return "the analysis service returned an unusable answer"
	case errors.Is(err, context.DeadlineExceeded):
		return analysis.ReasonDeadlineExceeded
	default:
		return "analysis unavailable: " + err.Error()
	}
}
