package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eugenenazirov/container-fit/internal/config"
)

func checkConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	products := filepath.Join(dir, "products.json")
	containers := filepath.Join(dir, "containers.json")
	if err := os.WriteFile(products, []byte(`[
  {"Référence": "CRATE", "Nom": "Crate", "Poids_unité": 100, "Volume_unité": 0.5},
  {"Référence": "A=B", "Nom": "Odd reference", "Poids_unité": 1, "Volume_unité": 0.001}
]`), 0o600); err != nil {
		t.Fatalf("write products: %v", err)
	}
	if err := os.WriteFile(containers, []byte(`[
  {"NAME ": "TC20", "ID ": 201, "Poids_max": 28000, "Capacite_plus_de_quatre": 29.5, "Capacite_quatre_ou_moins": 31, "Cout_du_conteneur": 25000},
  {"NAME ": "TC40", "ID ": 401, "Poids_max": 26000, "Capacite_plus_de_quatre": 58, "Capacite_quatre_ou_moins": 60, "Cout_du_conteneur": 40000}
]`), 0o600); err != nil {
		t.Fatalf("write containers: %v", err)
	}

	return config.Config{
		ProductsSource:      products,
		ContainersSource:    containers,
		CatalogFetchTimeout: time.Second,
	}
}

func TestRunCheckPrintsOutcome(t *testing.T) {
	cfg := checkConfig(t)
	var stdout, stderr bytes.Buffer

	code := runCheck(context.Background(), cfg, "TC20", []string{"CRATE=80", "A=B=2"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr %q)", code, stderr.String())
	}

	var outcome struct {
		Category    string `json:"category"`
		Recommended struct {
			Code string `json:"code"`
		} `json:"recommended"`
		Demand struct {
			TotalWeight float64 `json:"totalWeight"`
		} `json:"demand"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &outcome); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if outcome.Category != "too_small" || outcome.Recommended.Code != "TC40" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Demand.TotalWeight != 8002 {
		t.Fatalf("expected reference containing '=' to be counted, got weight %v", outcome.Demand.TotalWeight)
	}
	if !strings.Contains(stdout.String(), "\n  ") {
		t.Fatalf("expected indented JSON, got %s", stdout.String())
	}
}

func TestRunCheckErrorOutcomeExitsNonZero(t *testing.T) {
	cfg := checkConfig(t)
	var stdout, stderr bytes.Buffer

	if code := runCheck(context.Background(), cfg, "", []string{"CRATE=1"}, &stdout, &stderr); code != exitFailed {
		t.Fatalf("expected exit 1 for missing selection, got %d", code)
	}
	if !strings.Contains(stdout.String(), `"category": "error"`) {
		t.Fatalf("expected error outcome in output, got %s", stdout.String())
	}

	stdout.Reset()
	if code := runCheck(context.Background(), cfg, "TC99", nil, &stdout, &stderr); code != exitFailed {
		t.Fatalf("expected exit 1 for unknown container, got %d", code)
	}
}

func TestRunCheckRejectsMalformedLines(t *testing.T) {
	cfg := checkConfig(t)

	for _, line := range []string{"CRATE", "=5", "  =5"} {
		var stdout, stderr bytes.Buffer
		if code := runCheck(context.Background(), cfg, "TC20", []string{line}, &stdout, &stderr); code != exitUsage {
			t.Fatalf("expected exit 2 for %q, got %d", line, code)
		}
		if stderr.Len() == 0 {
			t.Fatalf("expected diagnostic for %q", line)
		}
	}
}

func TestRunCheckCatalogFailure(t *testing.T) {
	cfg := checkConfig(t)
	cfg.ProductsSource = filepath.Join(t.TempDir(), "missing.json")
	var stdout, stderr bytes.Buffer

	if code := runCheck(context.Background(), cfg, "TC20", nil, &stdout, &stderr); code != exitFailed {
		t.Fatalf("expected exit 1 for unreachable catalog, got %d", code)
	}
	if !strings.Contains(stderr.String(), "load catalog") {
		t.Fatalf("expected load error on stderr, got %q", stderr.String())
	}
}

func TestParseOrderLines(t *testing.T) {
	got, err := parseOrderLines([]string{"CRATE=3", "CRATE=5", "BOX= 7 ", "PAD=abc", "  LID =4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["CRATE"] != 5 {
		t.Fatalf("expected last CRATE quantity to win, got %d", got["CRATE"])
	}
	if got["BOX"] != 7 {
		t.Fatalf("expected BOX=7, got %d", got["BOX"])
	}
	if got["LID"] != 4 {
		t.Fatalf("expected padded reference to be trimmed, got %v", got)
	}
	if got["PAD"] != 0 {
		t.Fatalf("expected non-numeric quantity to become 0, got %d", got["PAD"])
	}
}
