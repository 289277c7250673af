// Package storage provides the blob-store collaborator backed by MinIO.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/veigarm/pixelfeed/backend/internal/media"
)

// BlobStore is the interface the media services persist blobs through.
type BlobStore interface {
	Write(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	WriteDerived(ctx context.Context, srcName, dstName string, spec media.TransformSpec) error
	Exists(ctx context.Context, objectName string) (bool, error)
	Delete(ctx context.Context, objectName string) error
}

// MinIOStore implements BlobStore on a single MinIO bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects to MinIO and ensures the bucket exists.
func NewMinIOStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinIOStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", bucket, err)
		}
	}

	return &MinIOStore{client: client, bucket: bucket}, nil
}

// Write stores a blob under objectName.
func (s *MinIOStore) Write(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("writing blob %q: %w", objectName, err)
	}
	return nil
}

// WriteDerived reads the staged blob srcName, applies the transform and
// stores the result under dstName. The transformer is scoped to this call.
func (s *MinIOStore) WriteDerived(ctx context.Context, srcName, dstName string, spec media.TransformSpec) error {
	obj, err := s.client.GetObject(ctx, s.bucket, srcName, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("reading staged blob %q: %w", srcName, err)
	}
	defer obj.Close()

	derived, size, err := media.NewTransformer().Apply(obj, spec)
	if err != nil {
		return fmt.Errorf("deriving %q from %q: %w", dstName, srcName, err)
	}

	return s.Write(ctx, dstName, derived, size, spec.ContentType())
}

// Exists reports whether a blob is stored under objectName.
func (s *MinIOStore) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat blob %q: %w", objectName, err)
	}
	return true, nil
}

// Delete removes the blob stored under objectName.
func (s *MinIOStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("deleting blob %q: %w", objectName, err)
	}
	return nil
}
