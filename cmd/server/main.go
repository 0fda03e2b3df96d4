// Roleplay API server: credential broker, scenario catalog,
// conversation analysis, and the live session event stream.
package main

import (
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/marcusbk37/go-roleplay/internal/config"
	"github.com/marcusbk37/go-roleplay/internal/log"
	"github.com/marcusbk37/go-roleplay/internal/server"
	"github.com/marcusbk37/go-roleplay/pkg/feedback"
	"github.com/marcusbk37/go-roleplay/pkg/hub"
	"github.com/marcusbk37/go-roleplay/pkg/llm/anthropic"
	"github.com/marcusbk37/go-roleplay/pkg/retrieval"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}
	log.Init(cfg.Log.Level)
	logger := log.L()

	llm, err := anthropic.NewClient(cfg.Anthropic.APIKey)
	if err != nil {
		stdlog.Fatalf("anthropic client: %v", err)
	}

	analyzer := feedback.NewAnalyzer(llm,
		feedback.WithModel(cfg.Anthropic.Model),
		feedback.WithMaxTokens(cfg.Anthropic.MaxTokens),
		feedback.WithRetriever(retrieval.NewPinecone(
			cfg.Pinecone.APIKey,
			cfg.Pinecone.IndexHost,
			cfg.Pinecone.Namespace,
		)),
	)

	events := hub.New()
	srv := server.New(cfg, analyzer, events)

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-done
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		stdlog.Fatalf("server: %v", err)
	}
}
