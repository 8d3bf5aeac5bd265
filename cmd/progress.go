package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"street-sync/core/feed"
	"street-sync/feature/streets"

	"github.com/schollz/progressbar/v3"
)

// progressReader reports bytes read from the feed to a progress bar.
type progressReader struct {
	io.Reader
	source io.Closer
	bar    *progressbar.ProgressBar
}

func (r *progressReader) Close() error {
	_ = r.bar.Finish()
	return r.source.Close()
}

// feedSize returns the size of a local feed file, or -1 when unknown.
func feedSize(cfg feed.Config) int64 {
	if cfg.Path == "" {
		return -1
	}
	info, err := os.Stat(cfg.Path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// withProgress wraps open so the feed download renders a byte progress bar on w.
func withProgress(open streets.FeedOpener, size int64, w io.Writer) streets.FeedOpener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		rc, err := open(ctx)
		if err != nil {
			return nil, err
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Reading feed"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w)
			}),
		)
		return &progressReader{Reader: io.TeeReader(rc, bar), source: rc, bar: bar}, nil
	}
}
