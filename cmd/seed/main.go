// Command seed populates the JSON data stores with synthetic engagement
// records and insight observations, then scores them. Identities come
// from Postgres when configured, a JSON file when provided, and are
// fabricated otherwise.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/ignite/datacloud-engage/internal/config"
	"github.com/ignite/datacloud-engage/internal/identity"
	"github.com/ignite/datacloud-engage/internal/pkg/logger"
	"github.com/ignite/datacloud-engage/internal/scoring"
	"github.com/ignite/datacloud-engage/internal/store"
	"github.com/ignite/datacloud-engage/internal/synthetic"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	count := flag.Int("count", 0, "number of individuals (overrides config)")
	seed := flag.Int64("seed", 0, "random seed for reproducible data (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if *count > 0 {
		cfg.Seed.Individuals = *count
	}
	if *seed != 0 {
		cfg.Seed.Seed = *seed
	}

	opts := []synthetic.GeneratorOption{}
	if cfg.Seed.Seed != 0 {
		opts = append(opts, synthetic.WithSeed(cfg.Seed.Seed))
	}
	gen := synthetic.NewGenerator(opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	identities, err := loadIdentities(ctx, cfg, gen)
	if err != nil {
		logger.Error("load identities", "error", err)
		os.Exit(1)
	}
	logger.Info("identities resolved", "count", len(identities))

	records := gen.EngagementRecords(identities)
	scorer := scoring.NewScorer(
		scoring.WithHighEngagementThreshold(cfg.Scoring.HighEngagementThreshold),
		scoring.WithMinChannelScore(cfg.Scoring.MinChannelScore),
	)
	scorer.ScoreAll(records)

	insights := gen.Insights(records, cfg.Seed.MinInsights, cfg.Seed.MaxInsights)

	engagement := store.NewEngagementStore(filepath.Join(cfg.Data.Dir, "engagement.json"))
	insightStore := store.NewInsightStore(filepath.Join(cfg.Data.Dir, "insights.json"))

	if err := engagement.Save(records); err != nil {
		logger.Error("save engagement store", "error", err)
		os.Exit(1)
	}
	if err := insightStore.Save(insights); err != nil {
		logger.Error("save insights store", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete",
		"individuals", len(records),
		"insights", len(insights),
		"data_dir", cfg.Data.Dir)
}

func loadIdentities(ctx context.Context, cfg *config.Config, gen *synthetic.Generator) ([]identity.Record, error) {
	switch {
	case cfg.Postgres.Enabled:
		db, err := identity.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		src := identity.NewPostgresSource(db, cfg.Postgres.IdentityTable)
		return src.Individuals(ctx, cfg.Seed.Individuals)
	case cfg.Seed.IdentitiesFile != "":
		src := identity.NewFileSource(cfg.Seed.IdentitiesFile)
		return src.Individuals(ctx, cfg.Seed.Individuals)
	default:
		return gen.Identities(cfg.Seed.Individuals), nil
	}
}
