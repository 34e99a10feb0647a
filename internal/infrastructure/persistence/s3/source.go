// Package s3 loads a dataset document stored as an S3 object.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"samarth/internal/domain/dataset"
	"samarth/internal/infrastructure/persistence/file"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
}

// Source reads one object holding a YAML or JSON dataset document.
type Source struct {
	client API
	bucket string
	key    string
}

// NewSource creates a source for s3://bucket/key.
func NewSource(client API, bucket, key string) *Source {
	return &Source{client: client, bucket: bucket, key: key}
}

// Describe implements ports.DatasetSource.
func (s *Source) Describe() string { return "s3://" + s.bucket + "/" + s.key }

// Load implements ports.DatasetSource. The object's ETag, when present,
// becomes the snapshot version.
func (s *Source) Load(ctx context.Context) (*dataset.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Describe(), err)
	}
	defer out.Body.Close()

	opts := []dataset.Option{
		dataset.WithSource(s.Describe()),
		dataset.WithLoadedAt(time.Now()),
	}
	if etag := strings.Trim(aws.ToString(out.ETag), `"`); etag != "" {
		opts = append(opts, dataset.WithVersion(etag))
	}
	return file.Decode(out.Body, opts...)
}

// Put uploads snap as a YAML document.
func (s *Source) Put(ctx context.Context, snap *dataset.Snapshot) error {
	var buf bytes.Buffer
	if err := file.Encode(&buf, snap); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/yaml"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.Describe(), err)
	}
	return nil
}
