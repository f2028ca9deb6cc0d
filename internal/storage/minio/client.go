// Package minio archives uploaded manifests in an S3-compatible bucket.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/deltacargo-server/internal/config"
	"github.com/dtroode/deltacargo-server/internal/model"
)

// objectAPI is the subset of *minio.Client used by the archive.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type sdkClient struct{ *minio.Client }

func (c sdkClient) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := c.Client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ model.Storage = (*Archive)(nil)

// Archive stores raw manifest files under caller-chosen keys.
type Archive struct {
	api    objectAPI
	bucket string
}

// New connects to the endpoint in cfg and makes sure the bucket exists.
func New(ctx context.Context, cfg config.Storage) (*Archive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return NewWithAPI(ctx, sdkClient{client}, cfg.Bucket)
}

// NewWithAPI builds an Archive over api.
func NewWithAPI(ctx context.Context, api objectAPI, bucket string) (*Archive, error) {
	a := &Archive{
		api:    api,
		bucket: bucket,
	}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.api.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.api.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

func (a *Archive) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := a.api.PutObject(ctx, a.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store %s: %w: %w", key, model.ErrStorage, err)
	}
	return nil
}

func (a *Archive) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	exists, err := a.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("manifest %s: %w", key, model.ErrNotFound)
	}

	obj, err := a.api.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w: %w", key, model.ErrStorage, err)
	}
	return obj, nil
}

func (a *Archive) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.api.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w: %w", key, model.ErrStorage, err)
}
