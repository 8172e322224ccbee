package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"newslens/internal/agent"
	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/cache"
	"newslens/internal/config"
	"newslens/internal/coordinator"
	"newslens/internal/llm"
	"newslens/internal/llmclient"
	"newslens/internal/usage"
)

func main() {
	_ = godotenv.Load()

	var (
		file    = flag.String("file", "", "article text file (default: stdin)")
		srcURL  = flag.String("url", "", "article source URL")
		lang    = flag.String("lang", "en", "article language")
		topics  = flag.String("topics", "", "comma-separated topic keywords")
		kindsCS = flag.String("kinds", "", "comma-separated kinds (default: core kinds)")
		tier    = flag.String("tier", "free", "requester tier: free, plus, pro")
		session = flag.String("session", "", "session key for cache reuse")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[newslens] ", log.LstdFlags)
	cfg := config.Load()

	text, err := readArticle(*file)
	if err != nil {
		logger.Fatalf("read article: %v", err)
	}
	kinds, err := parseKinds(*kindsCS)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Coordinator.RequestTimeout())
	defer cancel()

	client, err := buildClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("llm client: %v", err)
	}
	defer client.Close()

	recorder := &usage.Memory{}
	agents := agent.NewRegistry(agent.Deps{
		Client:            client,
		Catalog:           llm.DefaultCatalog(),
		Usage:             recorder,
		Log:               logger,
		MaxQualityRetries: cfg.LLM.QualityRetries,
	})
	store := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL())
	coord := coordinator.New(agents, store, coordinator.Config{MaxConcurrent: cfg.Coordinator.MaxConcurrent}, logger)

	art := article.New(text, *srcURL, *lang, splitCSV(*topics))
	results, kindErrs, err := coord.Run(ctx, art, analysis.Request{
		Kinds:      kinds,
		Tier:       analysis.Tier(*tier),
		SessionKey: *session,
	})
	if err != nil {
		logger.Fatalf("run: %v", err)
	}

	out, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(out))

	logger.Printf("billable llm calls: %d of %d total", recorder.Billable(), len(recorder.Events()))
	for _, e := range kindErrs {
		logger.Printf("kind failed: %v", e)
	}
	if len(kindErrs) == len(kinds) {
		os.Exit(1)
	}
}

func buildClient(ctx context.Context, cfg config.Config, logger *log.Logger) (llmclient.Client, error) {
	var inner llmclient.Client
	switch cfg.LLM.Provider {
	case "fake":
		inner = llmclient.NewFakeClient()
	default:
		cli, err := llmclient.NewGeminiClient(ctx)
		if err != nil {
			return nil, err
		}
		inner = cli
	}
	return llm.Wrap(inner,
		llm.WithLogging(logger),
		llm.Retry(cfg.LLM.RetryAttempts, cfg.LLM.RetryBaseDelay()),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
		llm.ValidateJSON(),
	), nil
}

func readArticle(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func parseKinds(csv string) ([]analysis.Kind, error) {
	if strings.TrimSpace(csv) == "" {
		return analysis.CoreKinds(), nil
	}
	var kinds []analysis.Kind
	for _, s := range splitCSV(csv) {
		k, err := analysis.ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
