package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/noah-isme/course-portal/pkg/config"
)

// S3Store lists objects from an S3-compatible bucket.
type S3Store struct {
	client     *minio.Client
	publicBase string
}

// NewS3Store connects to the configured endpoint. No network call is made here.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = client.EndpointURL().String()
	}
	return &S3Store{client: client, publicBase: publicBase}, nil
}

// List returns the objects directly under prefix.
func (s *S3Store) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	objects := make([]Object, 0)
	for info := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, info.Err)
		}
		name := strings.TrimPrefix(info.Key, prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		objects = append(objects, Object{Name: name, Size: info.Size, UpdatedAt: info.LastModified})
	}
	return objects, nil
}

// PublicURL derives a path-style URL for the object.
func (s *S3Store) PublicURL(bucket, objectPath string) string {
	return publicURL(s.publicBase, bucket, objectPath)
}
