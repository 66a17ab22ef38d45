package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/agent/tools"
	httpserver "github.com/yungbote/mentor-backend/internal/http"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/firebaseauth"
	"github.com/yungbote/mentor-backend/internal/platform/gcp"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/platform/observability"
)

type App struct {
	Log      *logger.Logger
	Cfg      *Config
	Server   *httpserver.Server
	Repos    Repos
	Services Services
	Agents   *Agents

	store        docstore.Store
	redis        *goredis.Client
	archive      gcp.ReportArchive
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     cfg.LogMode,
		Level:    cfg.LogLevel,
		Redact:   cfg.LogRedaction,
		HashSalt: cfg.LogHashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires every component from cfg.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg *Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
		Version:     cfg.OtelVersion,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: observability.ParseSampleRatio(cfg.OtelSampleRatio),
	})
	metrics := observability.NewMetrics()

	fail := func(err error) (*App, error) {
		a.Close()
		return nil, err
	}

	verifier, err := firebaseauth.NewVerifier(firebaseauth.Config{ProjectID: cfg.FirebaseProjectID})
	if err != nil {
		return fail(fmt.Errorf("init firebase verifier: %w", err))
	}
	if a.store, err = openStore(log, cfg); err != nil {
		return fail(err)
	}
	sessions, memory, rdb, err := openAgentState(ctx, log, cfg)
	if err != nil {
		return fail(fmt.Errorf("init redis: %w", err))
	}
	a.redis = rdb
	model, err := openModel(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("init model: %w", err))
	}
	if a.archive, err = openArchive(ctx, log, cfg); err != nil {
		return fail(fmt.Errorf("init report archive: %w", err))
	}
	defs, err := agent.LoadDefinitions()
	if err != nil {
		return fail(err)
	}

	a.Repos = wireRepos(a.store, log)
	a.Services = wireServices(log, verifier, a.Repos)
	a.Agents, err = wireAgents(log, agent.TeamConfig{
		Model:    model,
		Sessions: sessions,
		Memory:   memory,
		Observer: metrics,
		Log:      log,
	}, defs, tools.Deps{
		Profiles: a.Services.Profile,
		Goals:    a.Services.Goal,
		Checkins: a.Services.Checkin,
		Homework: a.Services.Homework,
		Memory:   memory,
	})
	if err != nil {
		return fail(fmt.Errorf("wire agents: %w", err))
	}
	agentServices := wireAgentServices(log, a.Agents, a.archive)

	a.Server = httpserver.NewServer(cfg.Addr(), wireRouter(log, cfg, metrics, a.Services, agentServices))
	log.Info("App wired", "store", cfg.StoreDriver, "agent_provider", cfg.AgentProvider, "model", model.Name())
	return a, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
	return a.Server.Run()
}

// Shutdown drains the HTTP server, then releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		errs = append(errs, a.Server.Shutdown(ctx))
	}
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(ctx))
	}
	a.Close()
	return errors.Join(errs...)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.archive != nil {
		_ = a.archive.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
