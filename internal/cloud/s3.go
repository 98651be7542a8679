package cloud

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignTTL = time.Hour

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Client archives dashboard snapshots.
type S3Client struct {
	svc     s3API
	presign func(ctx context.Context, bucket, key string) (string, error)
	bucket  string
}

func NewS3Client(ctx context.Context, region, bucket string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	svc := s3.NewFromConfig(cfg)
	presigner := s3.NewPresignClient(svc)

	return &S3Client{
		svc:    svc,
		bucket: bucket,
		presign: func(ctx context.Context, bucket, key string) (string, error) {
			req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, func(opts *s3.PresignOptions) {
				opts.Expires = presignTTL
			})
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
	}, nil
}

// Archive uploads data under key and returns a presigned download URL valid for an hour.
func (c *S3Client) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"uploaded-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := c.presign(ctx, c.bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}
