package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/datacloud-engage/internal/agent"
	"github.com/ignite/datacloud-engage/internal/api"
	"github.com/ignite/datacloud-engage/internal/config"
	"github.com/ignite/datacloud-engage/internal/content"
	"github.com/ignite/datacloud-engage/internal/pkg/logger"
	"github.com/ignite/datacloud-engage/internal/scoring"
	"github.com/ignite/datacloud-engage/internal/segmentation"
	"github.com/ignite/datacloud-engage/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.RedactPIIEnabled())

	engagement := store.NewEngagementStore(filepath.Join(cfg.Data.Dir, "engagement.json"))
	insights := store.NewInsightStore(filepath.Join(cfg.Data.Dir, "insights.json"))
	segments := store.NewSegmentStore(filepath.Join(cfg.Data.Dir, "segments.json"))

	scorer := scoring.NewScorer(
		scoring.WithHighEngagementThreshold(cfg.Scoring.HighEngagementThreshold),
		scoring.WithMinChannelScore(cfg.Scoring.MinChannelScore),
	)
	engine := segmentation.NewEngine(engagement, insights, segments)
	renderer := content.NewRenderer()

	var convs agent.ConversationStore = agent.NewMemoryStore()
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unreachable, falling back to in-memory sessions", "addr", cfg.Redis.Addr, "error", err)
		} else {
			convs = agent.NewRedisStore(client, time.Duration(cfg.Redis.SessionTTLHours)*time.Hour)
			logger.Info("conversation store backed by redis", "addr", cfg.Redis.Addr)
		}
	}

	audienceAgent := agent.New(engine, renderer, convs)
	handlers := api.NewHandlers(engagement, scorer, engine, renderer, audienceAgent)
	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
