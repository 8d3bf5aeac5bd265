package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"street-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrNoSource is returned when no feed source is configured.
var ErrNoSource = errors.New("no feed source configured")

// Open returns a stream over the configured feed source.
// The caller must close it.
func Open(ctx context.Context, cfg Config, client storage.Client, bucket string) (io.ReadCloser, error) {
	switch {
	case cfg.Path != "":
		f, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open feed file: %w", err)
		}
		return f, nil
	case cfg.URL != "":
		return download(ctx, cfg)
	case cfg.Object != "":
		if client == nil {
			return nil, fmt.Errorf("feed object %s: storage client not available", cfg.Object)
		}
		obj, err := client.GetObject(ctx, bucket, cfg.Object, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get feed object: %w", err)
		}
		return obj, nil
	default:
		return nil, ErrNoSource
	}
}

// IsRemote reports whether the location should be fetched over HTTP.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func download(ctx context.Context, cfg Config) (io.ReadCloser, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 300
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	httpClient := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download feed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download feed: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
