package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mintwell/mintwell/internal/catalog"
	"github.com/mintwell/mintwell/internal/engine"
	"github.com/mintwell/mintwell/internal/llm"
	"github.com/mintwell/mintwell/internal/service"
	"github.com/mintwell/mintwell/internal/storage"
	"github.com/spf13/viper"
)

// expandPath expands a leading tilde and environment variables in a path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// initStorage opens the database from config and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/mintwell/mintwell.db"
	}
	dbPath = expandPath(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// initEngine assembles the pipeline from config: storage, catalog, and the
// optional enhancement provider.
func initEngine(ctx context.Context) (*engine.Engine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load(expandPath(viper.GetString("catalog.path")))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	enhancer, err := llm.NewFromConfig(llmConfig(), nil)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to create enhancer: %w", err)
	}

	cfg := engine.DefaultConfig()
	if v := viper.GetInt("pipeline.window_days"); v != 0 {
		cfg.WindowDays = v
	}
	if v := viper.GetInt("pipeline.education_count"); v != 0 {
		cfg.EducationCount = v
	}

	return engine.New(store, cat, enhancer, nil, cfg), store, nil
}

func llmConfig() llm.Config {
	return llm.Config{
		Provider:    viper.GetString("enhancement.provider"),
		APIKey:      viper.GetString("enhancement.api_key"),
		Model:       viper.GetString("enhancement.model"),
		Temperature: viper.GetFloat64("enhancement.temperature"),
		MaxTokens:   viper.GetInt("enhancement.max_tokens"),
		RateLimit:   viper.GetInt("enhancement.rate_limit"),
		Timeout:     viper.GetDuration("enhancement.timeout"),
		MaxRetries:  viper.GetInt("enhancement.max_retries"),
		RetryDelay:  viper.GetDuration("enhancement.retry_delay"),
	}
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
