// Package s3 uploads files to S3-compatible object storage with minio-go.
package s3

import (
	"context"
	"fmt"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configures a Client
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// Client wraps a minio client
type Client struct {
	mc *minio.Client
}

// New creates a client; no request is made until the first upload
func New(opts Options) (*Client, error) {
	mc, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return &Client{mc: mc}, nil
}

// UploadFile stores the local file at filePath under bucket/key
func (c *Client) UploadFile(ctx context.Context, bucket, key, filePath, contentType string) error {
	_, err := c.mc.FPutObject(ctx, bucket, key, filePath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to %s/%s: %w", filePath, bucket, key, err)
	}
	return nil
}
