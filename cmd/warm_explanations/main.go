package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"prepmate/internal/adapter"
	"prepmate/internal/adapter/gemini"
	"prepmate/internal/adapter/ollama"
	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/domain"
	"prepmate/internal/logger"
	"prepmate/internal/quota"
	"prepmate/internal/service"

	"go.uber.org/zap"
)

// conceptEntry is one line of the concepts file.
type conceptEntry struct {
	Concept    string `json:"concept"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Context    string `json:"context"`
}

func main() {
	path := flag.String("file", "configs/seed_data/explanation_concepts.json", "JSON list of concepts to pre-generate")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	requests, err := loadConcepts(*path)
	if err != nil {
		log.Fatal("Failed to load concepts", zap.String("path", *path), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without Redis nothing generated here would outlive the process.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Redis is required to warm the explanation cache", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	var tracker domain.QuotaTracker = quota.NewMemoryTracker(cfg.Quota.TTL)
	if cfg.Quota.Backend == "redis" {
		tracker = quota.NewRedisTracker(cacheAdapter, cfg.Quota.TTL)
	}

	var client domain.ModelClient
	if cfg.LLM.Provider == "ollama" {
		client, err = ollama.NewClient(cfg.Ollama)
		if err != nil {
			log.Fatal("Failed to create Ollama client", zap.Error(err))
		}
	} else {
		client = gemini.NewClient(cfg.Gemini, cfg.Retry.DefaultRetryAfter)
	}

	pipeline := service.NewAIPipeline(client, tracker, service.RetryPolicyFromConfig(cfg.Retry))
	aiService := service.NewAIService(pipeline, tracker, cacheAdapter, cfg.Cache.ExplanationTTL)

	report, err := service.NewBatchService(aiService).WarmExplanations(ctx, requests)
	if err != nil {
		log.Error("Explanation warm-up interrupted", zap.Error(err))
	}
	if report != nil {
		log.Info("Explanation warm-up summary",
			zap.Int("requested", report.Requested),
			zap.Int("generated", report.Generated),
			zap.Int("already_warm", report.AlreadyWarm),
			zap.Int("failed", report.Failed),
			zap.Int("skipped", report.Skipped))
	}
}

func loadConcepts(path string) ([]domain.ExplanationRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []conceptEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal concepts: %w", err)
	}
	requests := make([]domain.ExplanationRequest, 0, len(entries))
	for _, e := range entries {
		if e.Concept == "" {
			continue
		}
		requests = append(requests, domain.ExplanationRequest{
			Concept:    e.Concept,
			Difficulty: e.Difficulty,
			Language:   e.Language,
			Context:    e.Context,
		})
	}
	return requests, nil
}
