package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eugenenazirov/container-fit/internal/catalog"
	"github.com/eugenenazirov/container-fit/internal/fit"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the fit calculator and catalog snapshot into HTTP handlers.
type Handler struct {
	calculator fit.Calculator
	catalog    *catalog.Snapshot
	metrics    *Metrics
	validate   *validator.Validate

	clock    func() time.Time
	loadedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithOutcomeMetrics records every fit outcome in m.
func WithOutcomeMetrics(m *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc fit.Calculator, snapshot *catalog.Snapshot, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		catalog:    snapshot,
		validate:   newValidator(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loadedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	_ = r
	products := h.catalog.Products()
	for i := range products {
		products[i].UnitWeight = fit.RoundWeight(products[i].UnitWeight)
		products[i].UnitVolume = fit.RoundVolume(products[i].UnitVolume)
	}

	writeJSON(w, http.StatusOK, productsResponse{
		Products: products,
		LoadedAt: h.loadedAt,
	})
}

func (h *Handler) handleGetContainers(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, containersResponse{
		Containers: h.catalog.Containers(),
		LoadedAt:   h.loadedAt,
	})
}

func (h *Handler) handleFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	lines := fit.BuildOrderLines(h.catalog.Products(), req.quantities())

	start := time.Now()
	outcome := h.calculator.Compute(lines, req.ContainerCode, h.catalog.Containers())
	elapsed := time.Since(start)

	h.metrics.observeOutcome(outcome.Category)

	if outcome.Category == fit.CategoryError {
		suggestion := "Select a container and recalculate"
		if errors.Is(outcome.Err, fit.ErrUnknownContainer) {
			suggestion = "Choose one of the codes listed by GET /api/containers"
		}
		writeError(w, http.StatusBadRequest, "Invalid selection", outcome.Message, suggestion)
		return
	}

	writeJSON(w, http.StatusOK, fitResponse{
		Outcome:           fit.RoundOutcome(outcome),
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type fitRequest struct {
	ContainerCode string              `json:"containerCode" validate:"max=64"`
	Quantities    map[string]quantity `json:"quantities" validate:"max=10000,dive,keys,required,max=128,endkeys,gte=0"`
}

// quantities trims the references. Keys that collapse onto the same
// reference are summed.
func (r fitRequest) quantities() map[string]int {
	out := make(map[string]int, len(r.Quantities))
	for ref, q := range r.Quantities {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if sum := out[ref] + int(q); sum >= out[ref] {
			out[ref] = sum
		} else {
			out[ref] = math.MaxInt
		}
	}
	return out
}

// quantity accepts a JSON number, a numeric string or null. Strings are
// parsed like a form field; numbers are truncated and clamped at 0.
type quantity int

func (q *quantity) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == nil {
			*q = 0
			return nil
		}
		*q = quantity(fit.ParseQuantity(*s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a number or a string: %w", err)
	}
	f, err := n.Float64()
	if err != nil && !math.IsInf(f, 0) {
		return fmt.Errorf("quantity %s: %w", n, err)
	}
	*q = quantity(truncateQuantity(f))
	return nil
}

func truncateQuantity(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	default:
		return int(f)
	}
}

type fitResponse struct {
	fit.Outcome
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type productsResponse struct {
	Products []catalog.Product `json:"products"`
	LoadedAt time.Time         `json:"loadedAt"`
}

type containersResponse struct {
	Containers []catalog.Container `json:"containers"`
	LoadedAt   time.Time           `json:"loadedAt"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string            `json:"error"`
	Details    string            `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
