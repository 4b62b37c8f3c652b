package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/container-fit/internal/application"
	"github.com/eugenenazirov/container-fit/internal/config"
	"github.com/eugenenazirov/container-fit/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("container-fit", "Container Fit Calculator - checks whether an order fits the selected shipping container")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	productsSource := kingpinApp.Flag("products", "Products catalog file path or URL (.json or .xlsx)").String()
	containersSource := kingpinApp.Flag("containers", "Containers catalog file path or URL (.json or .xlsx)").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	serveCmd := kingpinApp.Command("serve", "Run the HTTP service").Default()
	checkCmd := kingpinApp.Command("check", "Evaluate one order against the catalogs and print the outcome as JSON")
	checkContainer := checkCmd.Flag("container", "Code of the selected container").String()
	checkQuantities := checkCmd.Flag("qty", "Order line as REFERENCE=QUANTITY (repeatable)").Strings()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *productsSource != "" {
		overrides.ProductsSource = productsSource
	}

	if *containersSource != "" {
		overrides.ContainersSource = containersSource
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	switch command {
	case checkCmd.FullCommand():
		os.Exit(runCheck(context.Background(), cfg, *checkContainer, *checkQuantities, os.Stdout, os.Stderr))
	case serveCmd.FullCommand():
		serve(cfg)
	}
}

func serve(cfg config.Config) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := runServe(context.Background(), cfg, logger); err != nil {
		logger.Fatal("server terminated", zap.Error(err))
	}
}

// runServe loads the catalogs, starts the HTTP server and blocks until a
// termination signal has been handled.
func runServe(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	app, err := application.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
