package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"street-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrPageWrite is returned when AbortOnError is set and a page fails.
var ErrPageWrite = errors.New("failed to write snapshot page")

// WriteResult describes what a Write call produced.
type WriteResult struct {
	// Pages is the number of pages the run was split into.
	Pages int `json:"pages"`
	// Written lists the object names that were stored.
	Written []string `json:"written"`
	// Failed lists the object names that could not be stored.
	Failed []string `json:"failed"`
	// Archived counts objects moved from current to archive.
	Archived int `json:"archived"`
	// Purged counts archived objects removed for age.
	Purged int `json:"purged"`
}

// Writer stores snapshot pages and rotates the snapshot folders.
type Writer struct {
	client storage.Client
	bucket string
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a writer for the given bucket.
func NewWriter(client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{client: client, bucket: bucket, cfg: cfg, logger: logger, now: time.Now}
}

// WithClock replaces the writer's clock, mainly for tests.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Write rotates the folders and stores one object per page.
// An empty run keeps the current snapshot in place.
// A failed page is logged and followed by a cleanup of this run's recent
// files; the remaining pages are still attempted unless AbortOnError is set.
func (w *Writer) Write(ctx context.Context, records []StreetRecord) (*WriteResult, error) {
	// 1. Ensure the bucket exists
	if err := w.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	// 2. Move the previous run into the archive, unless there is nothing
	// to replace it with
	archived := 0
	if len(records) > 0 {
		n, err := w.Rotate(ctx)
		if err != nil {
			return nil, err
		}
		archived = n
	} else {
		w.logger.Warn("No streets to publish, keeping the current snapshot")
	}

	// 3. Drop old archives
	purged, err := w.Purge(ctx)
	if err != nil {
		return nil, err
	}

	// 4. Paginate and store
	createdAt := w.now().UTC()
	pages := Paginate(records, w.cfg.pageSize(), createdAt)
	res := &WriteResult{Pages: len(pages), Archived: archived, Purged: purged}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		name := w.currentKey(FileName(w.cfg.Prefix, createdAt, page.Part))
		if err := w.putPage(ctx, name, page); err != nil {
			w.logger.Error("Failed to write snapshot page",
				zap.String("object", name),
				zap.Int("part", page.Part),
				zap.Error(err),
			)
			res.Failed = append(res.Failed, name)

			removed := w.cleanupRecent(ctx)
			res.Written = subtract(res.Written, removed)

			if w.cfg.AbortOnError {
				return res, fmt.Errorf("%w %s: %v", ErrPageWrite, name, err)
			}
			continue
		}
		res.Written = append(res.Written, name)
	}

	w.logger.Info("Snapshot written",
		zap.Int("pages", res.Pages),
		zap.Int("written", len(res.Written)),
		zap.Int("failed", len(res.Failed)),
	)
	return res, nil
}

func (w *Writer) putPage(ctx context.Context, name string, page Page) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	_, err = w.client.PutObject(ctx, w.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// EnsureBucket creates the bucket if it does not exist.
func (w *Writer) EnsureBucket(ctx context.Context) error {
	exists, err := w.client.BucketExists(ctx, w.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := w.client.MakeBucket(ctx, w.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", w.bucket, err)
	}
	w.logger.Info("Created snapshot bucket", zap.String("bucket", w.bucket))
	return nil
}

// Rotate moves every object in the current folder into the archive folder,
// overwriting archived objects of the same name.
func (w *Writer) Rotate(ctx context.Context) (int, error) {
	objects, err := w.list(ctx, w.cfg.CurrentFolder)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, obj := range objects {
		dst := w.archiveKey(path.Base(obj.Key))
		_, err := w.client.CopyObject(ctx,
			minio.CopyDestOptions{Bucket: w.bucket, Object: dst},
			minio.CopySrcOptions{Bucket: w.bucket, Object: obj.Key},
		)
		if err != nil {
			return moved, fmt.Errorf("failed to archive %s: %w", obj.Key, err)
		}
		if err := w.client.RemoveObject(ctx, w.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return moved, fmt.Errorf("failed to remove %s after archiving: %w", obj.Key, err)
		}
		moved++
	}

	if moved > 0 {
		w.logger.Info("Archived previous snapshot", zap.Int("objects", moved))
	}
	return moved, nil
}

// Purge removes archived objects older than the retention window.
func (w *Writer) Purge(ctx context.Context) (int, error) {
	objects, err := w.list(ctx, w.cfg.ArchiveFolder)
	if err != nil {
		return 0, err
	}

	cutoff := w.now().Add(-w.cfg.retention())
	var stale []string
	for _, obj := range objects {
		if writtenAt(obj).Before(cutoff) {
			stale = append(stale, obj.Key)
		}
	}

	if err := w.remove(ctx, stale); err != nil {
		return 0, err
	}
	if len(stale) > 0 {
		w.logger.Info("Purged archived snapshots", zap.Int("objects", len(stale)))
	}
	return len(stale), nil
}

// writtenAt returns when an archived page was written. Archiving copies the
// object and resets LastModified, so the run date in the name takes
// precedence when it is older.
func writtenAt(obj minio.ObjectInfo) time.Time {
	if runDate, ok := ParseRunDate(obj.Key); ok && runDate.Before(obj.LastModified) {
		return runDate
	}
	return obj.LastModified
}

// cleanupRecent removes current-folder objects written within the cleanup
// window. Errors are logged; cleanup is best effort.
func (w *Writer) cleanupRecent(ctx context.Context) []string {
	objects, err := w.list(ctx, w.cfg.CurrentFolder)
	if err != nil {
		w.logger.Warn("Snapshot cleanup listing failed", zap.Error(err))
		return nil
	}

	cutoff := w.now().Add(-w.cfg.cleanupWindow())
	var recent []string
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			recent = append(recent, obj.Key)
		}
	}

	if err := w.remove(ctx, recent); err != nil {
		w.logger.Warn("Snapshot cleanup failed", zap.Error(err))
		return nil
	}
	w.logger.Warn("Removed partial snapshot files", zap.Int("objects", len(recent)))
	return recent
}

// List returns the object names of the current snapshot.
func (w *Writer) List(ctx context.Context) ([]string, error) {
	objects, err := w.list(ctx, w.cfg.CurrentFolder)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		names = append(names, path.Base(obj.Key))
	}
	return names, nil
}

// Open streams one page of the current snapshot by file name.
func (w *Writer) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("invalid snapshot name %q", name)
	}
	return w.client.GetObject(ctx, w.bucket, w.currentKey(name), minio.GetObjectOptions{})
}

func (w *Writer) list(ctx context.Context, folder string) ([]minio.ObjectInfo, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    folderPrefix(folder),
		Recursive: true,
	}
	var objects []minio.ObjectInfo
	for obj := range w.client.ListObjects(ctx, w.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (w *Writer) remove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- minio.ObjectInfo{Key: k}
	}
	close(objectsCh)

	var errs []error
	for rErr := range w.client.RemoveObjects(ctx, w.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rErr.ObjectName, rErr.Err))
	}
	return errors.Join(errs...)
}

func (w *Writer) currentKey(name string) string {
	return folderPrefix(w.cfg.CurrentFolder) + name
}

func (w *Writer) archiveKey(name string) string {
	return folderPrefix(w.cfg.ArchiveFolder) + name
}

func folderPrefix(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	return folder + "/"
}

func subtract(names, removed []string) []string {
	if len(removed) == 0 {
		return names
	}
	gone := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		gone[r] = struct{}{}
	}
	kept := names[:0]
	for _, n := range names {
		if _, ok := gone[n]; !ok {
			kept = append(kept, n)
		}
	}
	return kept
}
