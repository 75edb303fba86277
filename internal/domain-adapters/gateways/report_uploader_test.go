package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
)

// TestObjectKey tests object key layout
func TestObjectKey(t *testing.T) {
	require.Equal(t, "ci/run-1/final.csv", ObjectKey("ci", "run-1", "/tmp/reports/final/final.csv"))
	require.Equal(t, "run-1/summary.json", ObjectKey("", "run-1", "summary.json"))
}

// TestS3ReportUploader_Upload tests uploads against a fake S3 endpoint
func TestS3ReportUploader_Upload(t *testing.T) {
	var (
		mu   sync.Mutex
		puts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			puts = append(puts, r.URL.Path)
			mu.Unlock()
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	files := &entities.ReportFiles{
		CSV:     filepath.Join(dir, "final.csv"),
		Summary: filepath.Join(dir, "summary.json"),
	}
	for _, f := range files.All() {
		require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))
	}

	uploader, err := NewS3ReportUploader(entities.UploadConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		Bucket:    "reports",
		Prefix:    "nightly",
		AccessKey: "access",
		SecretKey: "secret",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, uploader.Upload(context.Background(), "run-42", files))

	sort.Strings(puts)
	require.Equal(t, []string{"/reports/nightly/run-42/final.csv", "/reports/nightly/run-42/summary.json"}, puts)
}

type failingUploader struct{ calls int }

func (f *failingUploader) UploadFile(context.Context, string, string, string, string) error {
	f.calls++
	return os.ErrPermission
}

// TestS3ReportUploader_StopsOnError tests that the first failure is returned
func TestS3ReportUploader_StopsOnError(t *testing.T) {
	client := &failingUploader{}
	uploader := &s3ReportUploader{client: client, bucket: "b"}

	err := uploader.Upload(context.Background(), "run", &entities.ReportFiles{CSV: "a.csv", HTML: "a.html"})
	require.ErrorIs(t, err, os.ErrPermission)
	require.Equal(t, 1, client.calls)
}
