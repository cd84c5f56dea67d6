package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultRegion = "us-east-1"

// S3Config holds S3-compatible storage settings.
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint targets MinIO or another S3-compatible service.
	Endpoint  string `env:"S3_ENDPOINT"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`
}

func (c S3Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "":
		return fmt.Errorf("%w: access key is required", ErrInvalidConfig)
	case c.SecretKey == "":
		return fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}
	return nil
}

// S3 stores blobs as objects in a single bucket. Locators are object keys.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 builds a client with static credentials.
func NewS3(cfg S3Config) (*S3, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads the object. The SDK needs a seekable body to sign the
// payload, so non-seekable readers are buffered.
func (s *S3) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		body = bytes.NewReader(data)
		size = int64(len(data))
	}
	if contentType == "" {
		contentType = sniffContentType(body)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", wrapS3Error(err, ErrWriteFailed)
	}

	return key, nil
}

func (s *S3) Get(ctx context.Context, loc string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(loc),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrReadFailed)
	}
	return out.Body, nil
}

// Exists issues a HEAD request for the object.
func (s *S3) Exists(ctx context.Context, loc string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(loc),
	})
	if err != nil {
		wrapped := wrapS3Error(err, ErrReadFailed)
		if isNotFound(wrapped) {
			return false, nil
		}
		return false, wrapped
	}
	return true, nil
}

func (s *S3) Delete(ctx context.Context, loc string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(loc),
	})
	if err != nil {
		wrapped := wrapS3Error(err, ErrDeleteFailed)
		if isNotFound(wrapped) {
			return nil
		}
		return wrapped
	}
	return nil
}

var _ Storage = (*S3)(nil)
