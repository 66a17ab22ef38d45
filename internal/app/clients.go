package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/gcp"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/platform/redisx"
)

// openStore returns a lazily connected document store for STORE_DRIVER.
// Missing connection settings fail here; dial errors surface on first use.
func openStore(log *logger.Logger, cfg *Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case "", "firestore":
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("%w: FIRESTORE_PROJECT_ID is required for STORE_DRIVER=firestore", docstore.ErrNotConfigured)
		}
		return docstore.NewLazy(func(ctx context.Context) (docstore.Store, error) {
			log.Info("Opening Firestore", "project", cfg.FirestoreProjectID)
			return docstore.NewFirestoreStore(ctx, docstore.FirestoreConfig{
				ProjectID: cfg.FirestoreProjectID,
				Options:   gcp.ClientOptionsFromEnv(),
			})
		}), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL is required for STORE_DRIVER=postgres", docstore.ErrNotConfigured)
		}
		return docstore.NewLazy(func(context.Context) (docstore.Store, error) {
			log.Info("Opening Postgres document store")
			return docstore.NewSQLStore(docstore.SQLConfig{Driver: "postgres", DSN: cfg.DatabaseURL})
		}), nil
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("%w: SQLITE_PATH is required for STORE_DRIVER=sqlite", docstore.ErrNotConfigured)
		}
		return docstore.NewLazy(func(context.Context) (docstore.Store, error) {
			log.Info("Opening SQLite document store", "path", cfg.SQLitePath)
			return docstore.NewSQLStore(docstore.SQLConfig{Driver: "sqlite", DSN: cfg.SQLitePath})
		}), nil
	case "memory":
		log.Warn("Using in-memory document store; data is lost on restart")
		return docstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
}

// openAgentState picks Redis-backed sessions and memory when REDIS_ADDR is
// set, in-process stores otherwise.
func openAgentState(ctx context.Context, log *logger.Logger, cfg *Config) (agent.SessionStore, agent.MemoryBank, *goredis.Client, error) {
	opts := agent.SessionOptions{MaxMessages: cfg.SessionMaxMessages, TTL: cfg.SessionTTL}
	rdb, err := redisx.NewClient(ctx, log, redisx.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set; agent sessions and memory are process-local")
		return agent.NewMemorySessionStore(opts), agent.NewMemoryBank(cfg.MemoryMaxItems), nil, nil
	}
	return agent.NewRedisSessionStore(rdb, opts), agent.NewRedisMemoryBank(rdb, cfg.MemoryMaxItems), rdb, nil
}

func openModel(ctx context.Context, cfg *Config) (agent.Model, error) {
	switch cfg.AgentProvider {
	case "", "gemini":
		return agent.NewGemini(ctx, agent.GeminiConfig{APIKey: cfg.GoogleAPIKey, Model: cfg.GeminiModel})
	case "openai":
		return agent.NewOpenAI(agent.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL})
	}
	return nil, fmt.Errorf("unsupported AGENT_PROVIDER %q", cfg.AgentProvider)
}

// openArchive returns nil when no report bucket is configured.
func openArchive(ctx context.Context, log *logger.Logger, cfg *Config) (gcp.ReportArchive, error) {
	if cfg.ReportBucket == "" {
		log.Info("REPORT_BUCKET not set; reports are not archived")
		return nil, nil
	}
	return gcp.NewReportArchive(ctx, log, gcp.ArchiveConfig{
		Bucket:        cfg.ReportBucket,
		EmulatorHost:  cfg.StorageEmulatorHost,
		PublicBaseURL: cfg.ReportPublicBaseURL,
	})
}
