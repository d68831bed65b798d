package dataio

import (
	"context"

	"github.com/minio/minio-go/v7"
)

// MinIOSource reads a CSV table from MinIO or any S3-compatible store.
type MinIOSource struct {
	client *minio.Client
	bucket string
	key    string
	optFns []CSVSourceOption
}

// NewMinIOSource creates a source for an object in a MinIO bucket.
func NewMinIOSource(client *minio.Client, bucket, key string, optFns ...CSVSourceOption) *MinIOSource {
	return &MinIOSource{
		client: client,
		bucket: bucket,
		key:    key,
		optFns: optFns,
	}
}

// ReadTable implements Source.
func (s *MinIOSource) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = obj.Close() }()

	return NewCSVSource(obj, s.optFns...).ReadTable(ctx)
}
