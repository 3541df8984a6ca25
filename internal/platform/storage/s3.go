// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the object storage configuration.
type S3Config struct {
	// Endpoint is the S3-compatible endpoint URL (e.g. "http://minio:9000").
	Endpoint string

	// Region is the S3 region ("auto" for R2/MinIO).
	Region string

	// Bucket is the bucket name for uploaded media.
	Bucket string

	// AccessKeyID / SecretAccessKey are static credentials.
	AccessKeyID     string
	SecretAccessKey string

	// PublicBaseURL is the URL prefix under which stored objects are served.
	PublicBaseURL string
}

// S3Backend implements [Backend] using S3-compatible object storage.
type S3Backend struct {
	client *s3.Client
	config S3Config
}

// NewS3 creates a new S3 storage backend.
//
// Path-style addressing is always enabled because most self-hosted
// S3-compatible stores (MinIO, Garage) require it.
func NewS3(cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		options.UsePathStyle = true
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Backend{client: client, config: cfg}, nil
}

// Upload stores an object and returns its public URL.
func (backend *S3Backend) Upload(context context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(backend.config.Bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
	}

	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := backend.client.PutObject(context, input); err != nil {
		return "", fmt.Errorf("storage: failed to upload object %s: %w", key, err)
	}

	return backend.publicURL(key), nil
}

// Delete removes an object by its public URL.
//
// URLs that do not belong to this backend are silently ignored so that
// resource cleanup never fails a delete of the owning record.
func (backend *S3Backend) Delete(context context.Context, fileURL string) error {
	key := backend.keyFromURL(fileURL)
	if key == "" {
		return nil
	}

	_, err := backend.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(backend.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete object %s: %w", key, err)
	}

	return nil
}

// Ping verifies that the bucket is reachable.
func (backend *S3Backend) Ping(context context.Context) error {
	_, err := backend.client.HeadBucket(context, &s3.HeadBucketInput{
		Bucket: aws.String(backend.config.Bucket),
	})
	if err != nil {
		return fmt.Errorf("storage: bucket %s unreachable: %w", backend.config.Bucket, err)
	}
	return nil
}

// publicURL joins the public base URL with an object key.
func (backend *S3Backend) publicURL(key string) string {
	base := strings.TrimSuffix(backend.config.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimSuffix(backend.config.Endpoint, "/") + "/" + backend.config.Bucket
	}
	return base + "/" + key
}

// keyFromURL extracts the object key from a public URL owned by this backend.
func (backend *S3Backend) keyFromURL(fileURL string) string {
	prefix := backend.publicURL("")
	if !strings.HasPrefix(fileURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(fileURL, prefix)
}
