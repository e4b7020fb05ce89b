package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/joho/godotenv"

	"github.com/inkstone-labs/storygraph/internal/config"
	"github.com/inkstone-labs/storygraph/internal/dedupe"
	"github.com/inkstone-labs/storygraph/internal/llm"
	"github.com/inkstone-labs/storygraph/internal/logger"
	"github.com/inkstone-labs/storygraph/internal/server"
	"github.com/inkstone-labs/storygraph/internal/store"
	"github.com/inkstone-labs/storygraph/internal/storyapi"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, cfgErr := config.Load(cfgPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Sync()
	if cfgErr != nil {
		log.Warn("config file not loaded, using defaults", "path", cfgPath, "error", cfgErr)
	}

	backend := storyapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout())

	var suggestor *dedupe.Suggestor
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Warn("llm client disabled", "error", err)
	} else if llmClient != nil {
		suggestor = dedupe.NewSuggestor(llmClient)
	}

	var snapshots store.SnapshotStore
	if cfg.Memgraph.URI != "" {
		mg, err := store.NewMemgraphStore(context.Background(), cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			log.Warn("snapshot export disabled", "error", err)
		} else {
			snapshots = mg
			defer mg.Close(context.Background())
		}
	}

	srv := server.New(cfg, backend, suggestor, snapshots, log)
	r := srv.SetupRouter()

	log.Info("starting server", "port", cfg.Server.Port, "layout_strategy", cfg.Layout.Strategy)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server exited", "error", err)
	}
}
