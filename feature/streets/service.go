package streets

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"street-sync/core/feed"
	"street-sync/core/reconcile"
	"street-sync/core/snapshot"
	"street-sync/core/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// RunOptions tunes a single reconciliation run.
type RunOptions struct {
	// DryRun matches without writing a snapshot.
	DryRun bool
}

// FeedOpener returns a stream over the raw feed.
type FeedOpener func(ctx context.Context) (io.ReadCloser, error)

// Service runs street reconciliations.
type Service struct {
	registry RegistryLoader
	schema   SchemaChecker
	writer   *snapshot.Writer
	openFeed FeedOpener
	logger   *zap.Logger
	newID    func() string

	group singleflight.Group
	mu    sync.RWMutex
	last  *Report
}

// NewService creates a service reading the registry from db, the feed from
// feedCfg and writing snapshots to bucket.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, feedCfg feed.Config, snapCfg snapshot.Config) *Service {
	registry := NewRegistry(db, logger)
	return &Service{
		registry: registry,
		schema:   registry,
		writer:   snapshot.NewWriter(client, bucket, snapCfg, logger),
		openFeed: func(ctx context.Context) (io.ReadCloser, error) {
			return feed.Open(ctx, feedCfg, client, bucket)
		},
		logger: logger,
	}
}

// WithRegistry replaces the registry loader.
func (s *Service) WithRegistry(r RegistryLoader) *Service {
	s.registry = r
	return s
}

// WithSchemaChecker replaces the registry schema check.
func (s *Service) WithSchemaChecker(c SchemaChecker) *Service {
	s.schema = c
	return s
}

// WithFeed replaces the feed opener.
func (s *Service) WithFeed(open FeedOpener) *Service {
	s.openFeed = open
	return s
}

// WithWriter replaces the snapshot writer.
func (s *Service) WithWriter(w *snapshot.Writer) *Service {
	s.writer = w
	return s
}

// WithIDGenerator replaces the generator of new street ids.
func (s *Service) WithIDGenerator(fn func() string) *Service {
	s.newID = fn
	return s
}

// Writer returns the snapshot writer.
func (s *Service) Writer() *snapshot.Writer {
	return s.writer
}

// Last returns the report of the last completed run, or nil.
func (s *Service) Last() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Run reconciles the feed against the registry and writes the snapshot.
// Concurrent calls with the same options share one run.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	key := fmt.Sprintf("reconcile:dry=%t", opts.DryRun)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.run(ctx, opts)
	})
	if shared {
		s.logger.Debug("Joined running reconciliation", zap.String("key", key))
	}
	report, _ := v.(*Report)
	return report, err
}

func (s *Service) run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{StartedAt: time.Now(), DryRun: opts.DryRun}
	s.logger.Info("Starting street reconciliation", zap.Bool("dry_run", opts.DryRun))

	// 1. Download and parse the feed
	phase := time.Now()
	lines, stats, err := s.readFeed(ctx)
	if err != nil {
		return nil, err
	}
	report.Durations.Download = time.Since(phase)
	s.logger.Info("Feed parsed",
		zap.Int("read", stats.Read),
		zap.Int("valid", stats.Valid),
		zap.Int("filtered", stats.Filtered),
		zap.Int("malformed", stats.Malformed),
		zap.Int("irrelevant", stats.Irrelevant),
	)

	// 2. Load the canonical registry
	phase = time.Now()
	canonical, err := s.registry.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	cache := reconcile.NewCache(canonical)
	report.Durations.Registry = time.Since(phase)

	// 3. Match
	phase = time.Now()
	matcher := reconcile.NewMatcher(cache)
	if s.newID != nil {
		matcher.WithIDGenerator(s.newID)
	}
	result := matcher.Match(reconcile.GroupLines(lines))
	cache.Release()
	report.Summary = result.Summary.WithScan(stats)
	report.Durations.Match = time.Since(phase)

	// 4. Write the snapshot
	if !opts.DryRun {
		phase = time.Now()
		written, err := s.writer.Write(ctx, snapshot.FromResult(result))
		report.Snapshot = written
		report.Durations.Write = time.Since(phase)
		if err != nil {
			return report, fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	report.FinishedAt = time.Now()
	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	s.logger.Info("Street reconciliation finished",
		zap.Int("streets", report.Summary.Streets),
		zap.Int("matched", report.Summary.Matched),
		zap.Int("updated", report.Summary.Updated),
		zap.Int("new", report.Summary.New),
		zap.Duration("elapsed", report.Elapsed()),
	)
	return report, nil
}

func (s *Service) readFeed(ctx context.Context) ([]feed.Line, feed.ScanStats, error) {
	rc, err := s.openFeed(ctx)
	if err != nil {
		return nil, feed.ScanStats{}, fmt.Errorf("failed to open feed: %w", err)
	}
	defer rc.Close()

	var lines []feed.Line
	stats, err := feed.Scan(ctx, rc, func(l feed.Line) error {
		lines = append(lines, l)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read feed: %w", err)
	}
	return lines, stats, nil
}
