package gateways

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/ochairo/pagedoctor/internal/domain/entities"
	"github.com/ochairo/pagedoctor/internal/domain/interfaces"
	"github.com/ochairo/pagedoctor/internal/external-adapters/s3"
)

// fileUploader is the part of the s3 client the uploader needs
type fileUploader interface {
	UploadFile(ctx context.Context, bucket, key, filePath, contentType string) error
}

// s3ReportUploader publishes report files under <prefix>/<runID>/ in a bucket
type s3ReportUploader struct {
	client fileUploader
	bucket string
	prefix string
	logger interfaces.Logger
}

// NewS3ReportUploader creates an uploader for the configured destination
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewS3ReportUploader(cfg entities.UploadConfig, logger interfaces.Logger) (*s3ReportUploader, error) {
	client, err := s3.New(s3.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    "us-east-1",
	})
	if err != nil {
		return nil, err
	}
	return &s3ReportUploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: interfaces.OrNoOp(logger),
	}, nil
}

// ObjectKey returns the object key of a report file for a run
func ObjectKey(prefix, runID, filePath string) string {
	return path.Join(prefix, runID, filepath.Base(filePath))
}

// Upload sends every report file
func (u *s3ReportUploader) Upload(ctx context.Context, runID string, files *entities.ReportFiles) error {
	for _, f := range files.All() {
		key := ObjectKey(u.prefix, runID, f)
		contentType := mime.TypeByExtension(filepath.Ext(f))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		if err := u.client.UploadFile(ctx, u.bucket, key, f, contentType); err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		u.logger.Debug("report uploaded", interfaces.F("bucket", u.bucket), interfaces.F("key", key))
	}
	return nil
}
