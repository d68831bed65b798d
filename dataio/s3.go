package dataio

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is the interface for the S3 operations used by S3Source.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a CSV table from an S3 object.
type S3Source struct {
	client S3Client
	bucket string
	key    string
	optFns []CSVSourceOption
}

// NewS3Source creates a source for s3://bucket/key.
func NewS3Source(client S3Client, bucket, key string, optFns ...CSVSourceOption) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		key:    key,
		optFns: optFns,
	}
}

// ReadTable implements Source.
func (s *S3Source) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return NewCSVSource(resp.Body, s.optFns...).ReadTable(ctx)
}

// ReadHierarchyS3 reads a hierarchy matrix from an S3 object.
func ReadHierarchyS3(ctx context.Context, client S3Client, bucket, key string, optFns ...CSVSourceOption) ([][]string, error) {
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return ReadHierarchy(resp.Body, optFns...)
}
