package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hazratullahh/eceomerce-jawad/models"
)

type R2Options struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // https://<account-id>.r2.cloudflarestorage.com
	PublicDomain    string // custom domain or r2.dev URL
	Folder          string
}

// R2Store keeps images in a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	s3     *s3.Client
	opts   R2Options
	domain string
}

func NewR2Store(ctx context.Context, opts R2Options) (*R2Store, error) {
	if opts.Bucket == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" || opts.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Store{
		s3:     client,
		opts:   opts,
		domain: strings.TrimRight(opts.PublicDomain, "/"),
	}, nil
}

func (s *R2Store) Upload(ctx context.Context, data []byte, contentType, ext string) (models.Image, error) {
	objectName := ObjectName(s.opts.Folder, ext)

	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(objectName),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", objectName, err)
	}

	return models.Image{URL: s.publicURL(objectName), PublicID: objectName}, nil
}

func (s *R2Store) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

// publicURL builds the public URL for a stored object.
func (s *R2Store) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.domain, s.opts.Bucket, objectName)
}
