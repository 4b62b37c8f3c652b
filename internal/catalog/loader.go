package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const maxSourceBytes = 32 << 20

// Source names where the two catalogs come from. Each entry is either a
// local path or an http(s) URL ending in .json or .xlsx.
type Source struct {
	Products   string
	Containers string
}

// Option configures Load.
type Option func(*loader)

// WithHTTPClient overrides the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *loader) {
		l.client = client
	}
}

type loader struct {
	client *http.Client
}

// Load fetches both catalogs once and freezes them into a Snapshot. Failures
// are reported as *LoadError wrapping ErrUnreachable or ErrMalformed.
func Load(ctx context.Context, src Source, opts ...Option) (*Snapshot, error) {
	l := &loader{client: http.DefaultClient}
	for _, opt := range opts {
		opt(l)
	}

	var products []Product
	if err := l.decode(ctx, src.Products, func(format Format, r io.Reader) error {
		var err error
		products, err = DecodeProducts(format, r)
		return err
	}); err != nil {
		return nil, err
	}

	var containers []Container
	if err := l.decode(ctx, src.Containers, func(format Format, r io.Reader) error {
		var err error
		containers, err = DecodeContainers(format, r)
		return err
	}); err != nil {
		return nil, err
	}

	snapshot, err := NewSnapshot(products, containers)
	if err != nil {
		return nil, &LoadError{Source: src.Products + ", " + src.Containers, Err: err}
	}
	return snapshot, nil
}

func (l *loader) decode(ctx context.Context, source string, fn func(Format, io.Reader) error) error {
	format, err := FormatOf(source)
	if err != nil {
		return &LoadError{Source: source, Err: err}
	}

	data, err := l.read(ctx, source)
	if err != nil {
		return &LoadError{Source: source, Err: err}
	}

	if err := fn(format, bytes.NewReader(data)); err != nil {
		return &LoadError{Source: source, Err: err}
	}
	return nil
}

func (l *loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty source", ErrUnreachable)
	}

	if !isURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: received status code %d", ErrUnreachable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnreachable, err)
	}
	return data, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
