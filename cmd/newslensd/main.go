package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newslens/internal/agent"
	"newslens/internal/cache"
	"newslens/internal/config"
	"newslens/internal/coordinator"
	"newslens/internal/llm"
	"newslens/internal/llmclient"
	"newslens/internal/usage"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stderr, "[newslensd] ", log.LstdFlags)
	cfg := config.Load()

	ctx := context.Background()
	var client llmclient.Client
	var err error
	switch cfg.LLM.Provider {
	case "fake":
		client = llmclient.NewFakeClient()
	default:
		client, err = llmclient.NewGeminiClient(ctx)
		if err != nil {
			logger.Fatalf("llm client: %v", err)
		}
	}
	client = llm.Wrap(client,
		llm.WithLogging(logger),
		llm.Retry(cfg.LLM.RetryAttempts, cfg.LLM.RetryBaseDelay()),
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
		llm.ValidateJSON(),
	)
	defer client.Close()

	agents := agent.NewRegistry(agent.Deps{
		Client:            client,
		Catalog:           llm.DefaultCatalog(),
		Usage:             &usage.Memory{},
		Log:               logger,
		MaxQualityRetries: cfg.LLM.QualityRetries,
	})
	store := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL())
	coord := coordinator.New(agents, store, coordinator.Config{MaxConcurrent: cfg.Coordinator.MaxConcurrent}, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", newAnalyzeHandler(coord, cfg.Coordinator.RequestTimeout(), logger))
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("forced to shutdown: %v", err)
	}
	logger.Println("server exiting")
}
