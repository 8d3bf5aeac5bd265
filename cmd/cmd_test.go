package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"street-sync/core/feed"
	"street-sync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"start"},
		{"reconcile", "streets"},
		{"snapshots", "purge"},
		{"snapshots", "list"},
		{"integrity"},
	} {
		c, _, err := RootCmd.Find(path)
		require.NoError(t, err, "command %v", path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}

	f := streetsReconcileCmd.Flags()
	assert.NotNil(t, f.Lookup("feed"))
	assert.NotNil(t, f.Lookup("dry-run"))
	assert.NotNil(t, f.Lookup("page-size"))
}

func TestApplyFeedFlag(t *testing.T) {
	t.Run("Empty Keeps Config", func(t *testing.T) {
		cfg := feed.Config{Object: "feeds/BAF.dat"}
		applyFeedFlag(&cfg, "")
		assert.Equal(t, "feeds/BAF.dat", cfg.Object)
	})

	t.Run("URL", func(t *testing.T) {
		cfg := feed.Config{Path: "old.dat", Object: "feeds/BAF.dat"}
		applyFeedFlag(&cfg, "https://example.org/BAF.dat")
		assert.Equal(t, feed.Config{URL: "https://example.org/BAF.dat"}, cfg)
	})

	t.Run("Path", func(t *testing.T) {
		cfg := feed.Config{URL: "https://example.org/BAF.dat", TimeoutSeconds: 10}
		applyFeedFlag(&cfg, "./BAF.dat")
		assert.Equal(t, feed.Config{Path: "./BAF.dat", TimeoutSeconds: 10}, cfg)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(rayid.New())
	app.Use(requestLogger(zap.New(core)))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Ray-ID", "ray-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	entries := logs.FilterMessage("Request started").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ray-1", entries[0].ContextMap()["ray_id"])
	assert.Equal(t, "/ping", entries[0].ContextMap()["path"])
}

func TestWithProgress(t *testing.T) {
	var out bytes.Buffer
	closed := false
	open := func(ctx context.Context) (io.ReadCloser, error) {
		return closerFunc{Reader: strings.NewReader("KATU line\n"), close: func() error { closed = true; return nil }}, nil
	}

	rc, err := withProgress(open, 10, &out)(context.Background())
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	assert.Equal(t, "KATU line\n", string(data))
	assert.True(t, closed)
	assert.Contains(t, out.String(), "Reading feed")
}

func TestFeedSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.dat")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	assert.Equal(t, int64(5), feedSize(feed.Config{Path: path}))
	assert.Equal(t, int64(-1), feedSize(feed.Config{URL: "https://example.org/feed.dat"}))
	assert.Equal(t, int64(-1), feedSize(feed.Config{Path: filepath.Join(t.TempDir(), "missing")}))
}

type closerFunc struct {
	io.Reader
	close func() error
}

func (c closerFunc) Close() error { return c.close() }

func TestRegisterSwagger_WithoutDocs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	app := fiber.New()

	assert.False(t, registerSwagger(app, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("Swagger docs not generated, /swagger disabled").Len())

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/index.html", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
