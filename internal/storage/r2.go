package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

// R2 stores objects in an S3 compatible bucket and hands out their public URLs.
type R2 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewR2(ctx context.Context, opts Options) (*R2, error) {
	creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(creds),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &R2{
		client:    client,
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
	}, nil
}

// Upload writes body under folder/<uuid><ext> and returns the key and its
// public URL.
func (r *R2) Upload(ctx context.Context, folder, ext, contentType string, body []byte) (string, string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.New(), ext)

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", "", fmt.Errorf("uploading %s: %w", key, err)
	}

	return key, r.URL(key), nil
}

func (r *R2) URL(key string) string {
	return r.publicURL + "/" + key
}

func (r *R2) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}
