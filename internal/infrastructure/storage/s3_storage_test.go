package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 is a minimal path-style S3 endpoint keeping objects in memory
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	calls   []string
}

func newFakeS3(t *testing.T) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{
		buckets: map[string]bool{},
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")
	f.calls = append(f.calls, r.Method+" "+path)

	if key == "" {
		switch r.Method {
		case http.MethodHead:
			if !f.buckets[bucket] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
		case http.MethodPut:
			f.buckets[bucket] = true
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testArchiveConfig(endpoint string) *config.ArchiveConfig {
	return &config.ArchiveConfig{
		Backend:   BackendS3,
		Bucket:    "pos-reports",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  endpoint,
		PathStyle: true,
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := testArchiveConfig("")
		cfg.Bucket = ""
		_, err := NewS3Archive(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := testArchiveConfig("")
		cfg.AccessKey = ""
		_, err := NewS3Archive(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := testArchiveConfig("")
		cfg.SecretKey = ""
		_, err := NewS3Archive(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("defaults endpoint and region", func(t *testing.T) {
		archive, err := NewS3Archive(testArchiveConfig(""), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "pos-reports", archive.Bucket())
	})

	t.Run("accepts endpoint without scheme", func(t *testing.T) {
		_, err := NewS3Archive(testArchiveConfig("minio.local:9000"))
		require.NoError(t, err)
	})
}

func TestS3Archive_StoreExistsDelete(t *testing.T) {
	fake, srv := newFakeS3(t)
	archive, err := NewS3Archive(testArchiveConfig(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()
	key := "reports/2024/02/sales-report-2024-01-01-to-2024-01-31.pdf"

	location, err := archive.Store(ctx, key, []byte("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "s3://pos-reports/"+key, location)
	assert.Equal(t, []byte("%PDF-1.7"), fake.objects["pos-reports/"+key])
	assert.Equal(t, "application/pdf", fake.types["pos-reports/"+key])

	exists, err := archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, archive.Delete(ctx, key))

	exists, err = archive.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3Archive_EmptyKey(t *testing.T) {
	archive, err := NewS3Archive(testArchiveConfig("http://localhost:9000"))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = archive.Store(ctx, "", []byte("x"), "text/plain")
	assert.Error(t, err)
	_, err = archive.Exists(ctx, "")
	assert.Error(t, err)
	assert.Error(t, archive.Delete(ctx, ""))
}

func TestS3Archive_EnsureBucket(t *testing.T) {
	fake, srv := newFakeS3(t)
	archive, err := NewS3Archive(testArchiveConfig(srv.URL))
	require.NoError(t, err)

	require.NoError(t, archive.EnsureBucket(context.Background()))
	assert.True(t, fake.buckets["pos-reports"])

	// Second call finds the bucket and does not create it again
	calls := len(fake.calls)
	require.NoError(t, archive.EnsureBucket(context.Background()))
	assert.Len(t, fake.calls, calls+1)
}
