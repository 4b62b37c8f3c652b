package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/container-fit/internal/api"
	"github.com/eugenenazirov/container-fit/internal/catalog"
	"github.com/eugenenazirov/container-fit/internal/config"
	"github.com/eugenenazirov/container-fit/internal/fit"
)

const metricsNamespace = "container_fit"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	catalog    *catalog.Snapshot
	calculator fit.Calculator
	metrics    *api.Metrics
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New loads the catalogs and initializes the application with all dependencies
// from the provided configuration. A catalog that cannot be loaded is fatal.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	snapshot, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded",
		zap.Int("products", len(snapshot.Products())),
		zap.Int("containers", len(snapshot.Containers())),
		zap.String("products_source", cfg.ProductsSource),
		zap.String("containers_source", cfg.ContainersSource),
	)

	var metrics *api.Metrics
	var metricsHandler http.Handler
	if cfg.EnableMetrics {
		metrics = api.NewMetrics(metricsNamespace)
		metricsHandler = metrics.Handler()
	}

	calc := fit.New()
	handler := api.NewHandler(calc, snapshot, api.WithOutcomeMetrics(metrics))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithMetrics(metrics),
	)

	rootHandler, err := BuildRootHandler(apiRouter, metricsHandler)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		catalog:    snapshot,
		calculator: calc,
		metrics:    metrics,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     NewServer(cfg, rootHandler),
	}, nil
}

// LoadCatalog reads both catalog sources named by the configuration, bounded
// by the configured fetch timeout.
func LoadCatalog(ctx context.Context, cfg config.Config) (*catalog.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CatalogFetchTimeout)
	defer cancel()

	snapshot, err := catalog.Load(ctx, catalog.Source{
		Products:   resolveSource(cfg.ProductsSource),
		Containers: resolveSource(cfg.ContainersSource),
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return snapshot, nil
}

// BuildRootHandler constructs the root HTTP handler that serves static files and routes API requests.
// The metrics endpoint is mounted only when metricsHandler is non-nil.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) (http.Handler, error) {
	mux := http.NewServeMux()

	staticPath, err := resolveProjectPath(filepath.Join("web", "static"))
	if err != nil {
		return nil, err
	}
	staticDir := http.Dir(staticPath)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(staticDir)))
	mux.Handle("/api/", apiHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	indexPath, err := resolveProjectPath(filepath.Join("web", "templates", "index.html"))
	if err != nil {
		return nil, err
	}
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Catalog returns the catalog snapshot the application serves.
func (a *App) Catalog() *catalog.Snapshot {
	return a.catalog
}

// resolveSource leaves URLs and existing paths untouched and looks relative
// paths up from the project root otherwise.
func resolveSource(source string) string {
	source = strings.TrimSpace(source)
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return source
	}
	if filepath.IsAbs(source) {
		return source
	}
	if _, err := os.Stat(source); err == nil {
		return source
	}
	if resolved, err := resolveProjectPath(source); err == nil {
		return resolved
	}
	return source
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
