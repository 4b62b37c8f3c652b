package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/eugenenazirov/container-fit/internal/application"
	"github.com/eugenenazirov/container-fit/internal/config"
	"github.com/eugenenazirov/container-fit/internal/fit"
)

// Exit codes of the check command.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// runCheck evaluates a single order and writes the outcome as indented JSON.
// It returns exitFailed for an error outcome or an unloadable catalog.
func runCheck(ctx context.Context, cfg config.Config, container string, lines []string, stdout, stderr io.Writer) int {
	quantities, err := parseOrderLines(lines)
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return exitUsage
	}

	snapshot, err := application.LoadCatalog(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return exitFailed
	}

	orderLines := fit.BuildOrderLines(snapshot.Products(), quantities)
	outcome := fit.New().Compute(orderLines, container, snapshot.Containers())

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fit.RoundOutcome(outcome)); err != nil {
		fmt.Fprintf(stderr, "check: write outcome: %v\n", err)
		return exitFailed
	}

	if outcome.Category == fit.CategoryError {
		return exitFailed
	}
	return exitOK
}

// parseOrderLines turns REF=QTY pairs into quantities. The reference is
// everything before the last '='. A repeated reference keeps its last quantity.
func parseOrderLines(lines []string) (map[string]int, error) {
	quantities := make(map[string]int, len(lines))
	for _, line := range lines {
		idx := strings.LastIndex(line, "=")
		if idx < 0 {
			return nil, fmt.Errorf("malformed order line %q, expected REFERENCE=QUANTITY", line)
		}
		ref := strings.TrimSpace(line[:idx])
		if ref == "" {
			return nil, fmt.Errorf("malformed order line %q, missing reference", line)
		}
		quantities[ref] = fit.ParseQuantity(line[idx+1:])
	}
	return quantities, nil
}
