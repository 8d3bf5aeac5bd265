package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// MemoryClient is an in-memory storage.Client for tests that need real
// object semantics (listing, copying, modification times).
type MemoryClient struct {
	mu      sync.Mutex
	buckets map[string]map[string]memoryObject

	// Now stamps LastModified on writes. Defaults to time.Now.
	Now func() time.Time
	// FailPut makes PutObject fail for matching object names.
	FailPut func(objectName string) bool
}

type memoryObject struct {
	data     []byte
	modified time.Time
}

// NewMemoryClient creates an empty client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{buckets: make(map[string]map[string]memoryObject), Now: time.Now}
}

// Seed stores an object with an explicit modification time.
func (m *MemoryClient) Seed(bucket, name string, data []byte, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(bucket)[name] = memoryObject{data: data, modified: modified}
}

// Keys returns the sorted object names under prefix.
func (m *MemoryClient) Keys(bucket, prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.buckets[bucket] {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Data returns the content of an object.
func (m *MemoryClient) Data(bucket, name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucket][name]
	return obj.data, ok
}

func (m *MemoryClient) bucket(name string) map[string]memoryObject {
	b, ok := m.buckets[name]
	if !ok {
		b = make(map[string]memoryObject)
		m.buckets[name] = b
	}
	return b
}

func (m *MemoryClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buckets[bucketName]
	return ok, nil
}

func (m *MemoryClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(bucketName)
	return nil
}

func (m *MemoryClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if m.FailPut != nil && m.FailPut(objectName) {
		return minio.UploadInfo{}, fmt.Errorf("put %s: simulated failure", objectName)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bucket(bucketName)[objectName] = memoryObject{data: data, modified: m.Now()}
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

func (m *MemoryClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[bucketName][objectName]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "object not found", Key: objectName, StatusCode: 404}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryClient) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	m.mu.Lock()
	var infos []minio.ObjectInfo
	for k, obj := range m.buckets[bucketName] {
		if strings.HasPrefix(k, opts.Prefix) {
			infos = append(infos, minio.ObjectInfo{Key: k, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	m.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func (m *MemoryClient) CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.buckets[src.Bucket][src.Object]
	if !ok {
		return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Key: src.Object, StatusCode: 404}
	}
	m.bucket(dst.Bucket)[dst.Object] = memoryObject{data: obj.data, modified: m.Now()}
	return minio.UploadInfo{Bucket: dst.Bucket, Key: dst.Object, Size: int64(len(obj.data))}, nil
}

func (m *MemoryClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[bucketName], objectName)
	return nil
}

func (m *MemoryClient) RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	for obj := range objectsCh {
		_ = m.RemoveObject(ctx, bucketName, obj.Key, minio.RemoveObjectOptions{})
	}
	ch := make(chan minio.RemoveObjectError)
	close(ch)
	return ch
}
