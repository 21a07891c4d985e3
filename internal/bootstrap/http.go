package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/trash-classifier/config"
	httpx "github.com/target/trash-classifier/internal/http"
)

const (
	shutdownWaitTimeout = 10 * time.Second
	minWriteTimeout     = 90 * time.Second
	// writeTimeoutMargin covers upload parsing and rendering around a model call.
	writeTimeoutMargin = 30 * time.Second
)

// writeTimeout leaves room for a full model call plus the rest of the request.
func writeTimeout(genaiTimeout time.Duration) time.Duration {
	if genaiTimeout <= 0 {
		genaiTimeout = config.DefaultGenAITimeout
	}
	return max(minWriteTimeout, genaiTimeout+writeTimeoutMargin)
}

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Services == nil || cfg.Services.Controller == nil {
		return nil, errors.New("http server requires a controller")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Controller:     cfg.Services.Controller,
		CookieDomain:   appCfg.HTTP.CookieDomain,
		CookieSecure:   appCfg.HTTP.CookieSecure,
		SessionCookie:  appCfg.Session.CookieName,
		MaxUploadBytes: appCfg.HTTP.MaxUploadBytes,
		IsDev:          appCfg.IsDev,
		Logger:         logger,
	}
	if cfg.Services.Generator != nil {
		services.GenAIConfigured = cfg.Services.Generator.Configured
	}
	if cfg.Services.Registry != nil {
		services.Metrics = cfg.Services.Registry
		services.MetricsPath = appCfg.Metrics.Path
	}

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: services,
		HTTP:     appCfg.HTTP,
	})
	if err != nil {
		return nil, err
	}

	addr := appCfg.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(appCfg.GenAI.Timeout),
		IdleTimeout:  120 * time.Second,
	}, nil
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) (http.Handler, error) {
	router, err := httpx.NewRouter(cfg.Services)
	if err != nil {
		return nil, err
	}

	// Order: Recover -> Logging -> Compression -> Router
	h := router
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
