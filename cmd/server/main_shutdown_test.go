package main

import (
	"context"
	"errors"
	"os"
	osSignal "os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/container-fit/internal/catalog"
)

func stubSignal(t *testing.T, sig os.Signal) *[]os.Signal {
	t.Helper()
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})

	var subscribed []os.Signal
	signalNotify = func(ch chan<- os.Signal, sigs ...os.Signal) {
		subscribed = append(subscribed, sigs...)
		go func() {
			ch <- sig
		}()
	}
	return &subscribed
}

func TestRunServeShutsDownOnSignal(t *testing.T) {
	subscribed := stubSignal(t, syscall.SIGTERM)

	cfg := checkConfig(t)
	cfg.Port = "127.0.0.1:0"
	cfg.ShutdownGracePeriod = time.Second
	cfg.EnableMetrics = true

	core, logs := observer.New(zap.InfoLevel)
	done := make(chan error, 1)
	go func() {
		done <- runServe(context.Background(), cfg, zap.New(core))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runServe did not return after SIGTERM")
	}

	if !slices.Contains[[]os.Signal, os.Signal](*subscribed, syscall.SIGTERM) || !slices.Contains[[]os.Signal, os.Signal](*subscribed, syscall.SIGINT) {
		t.Fatalf("expected SIGINT and SIGTERM subscriptions, got %v", *subscribed)
	}
	loaded := logs.FilterMessage("catalog loaded").All()
	if len(loaded) != 1 {
		t.Fatalf("expected catalog to be loaded once, got %d entries", len(loaded))
	}
	if got := loaded[0].ContextMap()["containers"]; got != int64(2) {
		t.Fatalf("expected 2 containers logged, got %v", got)
	}
	if logs.FilterMessage("shutting down server").Len() != 1 {
		t.Fatalf("expected shutdown to be logged")
	}
	if logs.FilterMessage("graceful shutdown failed").Len() != 0 {
		t.Fatalf("expected graceful shutdown to succeed")
	}
}

func TestRunServeFailsBeforeListeningWhenCatalogMissing(t *testing.T) {
	t.Cleanup(func() {
		signalNotify = osSignal.Notify
	})
	signalNotify = func(chan<- os.Signal, ...os.Signal) {
		t.Fatalf("signals must not be awaited when the catalog cannot load")
	}

	cfg := checkConfig(t)
	cfg.Port = "127.0.0.1:0"
	cfg.ContainersSource = filepath.Join(t.TempDir(), "missing.xlsx")

	err := runServe(context.Background(), cfg, zap.NewNop())
	if err == nil {
		t.Fatalf("expected error for missing containers catalog")
	}
	if !errors.Is(err, catalog.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}
