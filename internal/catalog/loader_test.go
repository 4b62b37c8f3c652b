package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFromFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := Source{
		Products:   writeFile(t, dir, "produits.json", productsJSON),
		Containers: writeFile(t, dir, "conteneurs.json", containersJSON),
	}

	snap, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, snap.Products(), 2)
	assert.Len(t, snap.Containers(), 2)
}

func TestLoadFromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/produits.json":
			_, _ = w.Write([]byte(productsJSON))
		case "/conteneurs.json":
			_, _ = w.Write([]byte(containersJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	snap, err := Load(context.Background(), Source{
		Products:   server.URL + "/produits.json",
		Containers: server.URL + "/conteneurs.json",
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	c, ok := snap.Container("TC40")
	require.True(t, ok)
	assert.Equal(t, 58.0, c.VolumeCapacity)
}

func TestLoadUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	products := writeFile(t, dir, "produits.json", productsJSON)

	tests := map[string]Source{
		"MissingFile": {Products: filepath.Join(dir, "missing.json"), Containers: products},
		"HTTPStatus":  {Products: products, Containers: server.URL + "/conteneurs.json"},
	}

	for name, src := range tests {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(context.Background(), src, WithHTTPClient(server.Client()))
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.NotEmpty(t, loadErr.Source)
			assert.ErrorIs(t, err, ErrUnreachable)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	products := writeFile(t, dir, "produits.json", productsJSON)

	tests := map[string]Source{
		"BadJSON":       {Products: products, Containers: writeFile(t, dir, "bad.json", "[{")},
		"UnknownFormat": {Products: products, Containers: writeFile(t, dir, "conteneurs.csv", "NAME,ID")},
		"DuplicateCode": {Products: products, Containers: writeFile(t, dir, "dup.json", `[{"NAME ": "TC20"}, {"NAME ": "TC20 "}]`)},
	}

	for name, src := range tests {
		src := src
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(context.Background(), src)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLoadHonoursContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productsJSON))
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, Source{
		Products:   server.URL + "/produits.json",
		Containers: server.URL + "/conteneurs.json",
	}, WithHTTPClient(server.Client()))
	assert.ErrorIs(t, err, ErrUnreachable)
}
