package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	classifier "github.com/target/trash-classifier"
	"github.com/target/trash-classifier/config"
	"github.com/target/trash-classifier/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Controller *service.Controller
	// GenAIConfigured reports model availability on /healthz (optional).
	GenAIConfigured func() bool
	// Metrics is served at MetricsPath when non-nil.
	Metrics     prometheus.Gatherer
	MetricsPath string

	CookieDomain   string
	CookieSecure   bool
	SessionCookie  string
	MaxUploadBytes int64

	// TemplateFS overrides the template source (tests).
	TemplateFS fs.FS
	IsDev      bool         // Development mode flag for hot reloading, etc.
	Logger     *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Controller == nil {
		return nil, errors.New("router requires a controller")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.GenAIConfigured))
	mux.Handle("HEAD /healthz", healthHandler(services.GenAIConfigured))
	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(services.Metrics, promhttp.HandlerOpts{}))
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))

	chain, err := uiChain(services, ui, logger)
	if err != nil {
		return nil, err
	}
	registerUIRoutes(mux, ui, chain)
	mux.Handle("/", http.HandlerFunc(ui.NotFound))

	return BrowserDetection()(mux), nil
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode templates are loaded from disk and reloaded per request.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS := services.TemplateFS
	if templateFS == nil {
		var err error
		if templateFS, err = defaultTemplateFS(services.IsDev); err != nil {
			return nil, err
		}
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev && services.TemplateFS == nil,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	maxUpload := services.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = config.DefaultMaxUploadBytes
	}
	return &UIHandlers{
		T:              tr,
		Controller:     services.Controller,
		MaxUploadBytes: maxUpload,
		IsDev:          services.IsDev,
		Logger:         logger,
	}, nil
}

func defaultTemplateFS(isDev bool) (fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), nil
	}
	sub, err := fs.Sub(classifier.TemplateFS, "frontend/templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-filesystem: %w", err)
	}
	return sub, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return withCacheHeaders(false,
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	sub, err := fs.Sub(classifier.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", "error", err)
		return http.NotFoundHandler()
	}
	return withCacheHeaders(true, http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

// withCacheHeaders lets embedded assets be cached for an hour; dev assets are never cached.
func withCacheHeaders(cacheable bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		next.ServeHTTP(w, r)
	})
}

// uiChain builds the middleware applied to every page route:
// body limit -> CSRF -> session cookie -> handler.
func uiChain(services RouterServices, ui *UIHandlers, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	sessionMW, err := SessionCookie(SessionCookieConfig{
		Name:    services.SessionCookie,
		Domain:  services.CookieDomain,
		Secure:  services.CookieSecure,
		Ensurer: services.Controller,
		OnError: func(w http.ResponseWriter, r *http.Request, err error) { ui.renderServerError(w, r, err) },
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	csrf := CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		Secure:       services.CookieSecure,
		Logger:       logger,
	})
	limit := BodyLimit(ui.MaxUploadBytes)
	return func(h http.Handler) http.Handler {
		return limit(csrf(sessionMW(h)))
	}, nil
}

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && n > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// registerUIRoutes wires every page route through wrap.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, wrap func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) { mux.Handle(pattern, wrap(fn)) }

	handle("GET /{$}", h.Index)
	handle("POST /select-role", h.SelectRole)
	handle("POST /login", h.Login)
	handle("POST /home", h.ReturnHome)

	handle("POST /public/classify-image", h.ClassifyImage)
	handle("POST /public/classify-text", h.ClassifyText)

	handle("POST /industry/entries", h.SubmitEntry)
	handle("POST /industry/suggestions", h.GenerateSuggestions)
	handle("GET /industry/suggestions", h.WasteSuggestions)
	handle("GET /industry/amount-input", h.AmountInput)
	handle("GET /industry/entries.json", h.EntriesJSON)
}
