package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/target/trash-classifier/config"
	genaiadapter "github.com/target/trash-classifier/internal/adapters/genai"
	"github.com/target/trash-classifier/internal/adapters/imaging"
	"github.com/target/trash-classifier/internal/adapters/memory"
	redisadapter "github.com/target/trash-classifier/internal/adapters/redis"
	"github.com/target/trash-classifier/internal/observability/metrics"
	"github.com/target/trash-classifier/internal/ports"
	"github.com/target/trash-classifier/internal/service"
)

// ServiceDeps contains the inputs needed to build the service container.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
	// Redis is optional; when nil and the redis store is selected, BuildServices connects itself.
	Redis redis.UniversalClient
}

// ServiceContainer holds every constructed service.
type ServiceContainer struct {
	Controller *service.Controller
	Sessions   ports.SessionStore
	Generator  *genaiadapter.Client
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics

	redis     redis.UniversalClient
	ownsRedis bool
}

// BuildServices wires the session store, Gemini client, metrics and controller.
func BuildServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("service deps with config are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sc := &ServiceContainer{redis: deps.Redis}
	sc.Registry, sc.Metrics = buildMetrics(cfg.Metrics)

	store, err := sc.buildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	sc.Sessions = store

	gen, err := genaiadapter.New(ctx, genaiadapter.Options{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create genai client: %w", err), sc.Close())
	}
	if !gen.Configured() {
		logger.WarnContext(ctx, "GEMINI_API_KEY not set; classification and suggestions will report errors")
	} else {
		logger.InfoContext(ctx, "genai client ready", "model", gen.Model(), "timeout", cfg.GenAI.Timeout)
	}
	sc.Generator = gen

	ctrl, err := service.NewController(service.ControllerOptions{
		Deps: service.ControllerDeps{
			Sessions:  store,
			Generator: gen,
			Images:    imaging.Decoder{ThumbnailMaxDim: imaging.DefaultThumbnailMaxDim, MaxPixels: imaging.DefaultMaxPixels},
		},
		Config: service.ControllerConfig{
			SessionTTL: cfg.Session.TTL,
			Metrics:    sc.Metrics,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create controller: %w", err), sc.Close())
	}
	sc.Controller = ctrl
	return sc, nil
}

func buildMetrics(cfg config.MetricsConfig) (*prometheus.Registry, *metrics.Metrics) {
	if !cfg.Enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.New(reg)
}

//nolint:ireturn // the store backend is chosen at runtime.
func (sc *ServiceContainer) buildSessionStore(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (ports.SessionStore, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		store, err := memory.NewSessionStore(cfg.Session.MemoryCapacity)
		if err != nil {
			return nil, fmt.Errorf("create memory session store: %w", err)
		}
		logger.InfoContext(ctx, "using in-memory session store", "capacity", cfg.Session.MemoryCapacity)
		return store, nil
	}

	if sc.redis == nil {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		sc.redis = client
		sc.ownsRedis = true
	}
	logger.InfoContext(ctx, "using redis session store", "prefix", cfg.Redis.KeyPrefix)
	return redisadapter.NewSessionStoreWithPrefix(sc.redis, cfg.Redis.KeyPrefix), nil
}

// Close releases connections opened by BuildServices.
func (sc *ServiceContainer) Close() error {
	if sc == nil || !sc.ownsRedis || sc.redis == nil {
		return nil
	}
	if err := sc.redis.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
