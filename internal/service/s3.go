package service

import (
	"bytes"
	"context"
	"fmt"

	"skylens/mediascope/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service implements ObjectStore on top of S3 (or MinIO via a custom
// endpoint).
type S3Service struct {
	bucket   string
	uploader *manager.Uploader
	s3Client *s3.Client
}

func NewS3Service(cfg *config.Config) *S3Service {
	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	credsProvider := credentials.NewStaticCredentialsProvider(
		cfg.AWSAccessKeyID,
		cfg.AWSSecretAccessKey,
		"",
	)

	awsCfg := aws.Config{
		Region:      cfg.AWSRegion,
		Credentials: credsProvider,
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	return &S3Service{
		bucket:   cfg.S3BucketName,
		uploader: manager.NewUploader(s3Client),
		s3Client: s3Client,
	}
}

func (s *S3Service) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3Service) HealthCheck(ctx context.Context) error {
	_, err := s.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
