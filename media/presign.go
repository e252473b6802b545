// Package media issues presigned S3 URLs for post media. Clients upload
// directly to object storage; the backend only hands out short-lived URLs
// and records the resulting storage key on the post.
package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Seams for tests; production code never reassigns these.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Options configures the presigner.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// Lifetime of issued URLs. Zero means 15 minutes.
	URLLifetime time.Duration
}

// Presigner issues presigned PUT and GET URLs against one bucket.
type Presigner struct {
	opts Options
}

// NewPresigner validates the options and returns a presigner.
func NewPresigner(opts Options) (*Presigner, error) {
	if opts.Bucket == "" {
		return nil, errors.New("media bucket is required", errors.CategoryValidation)
	}
	if opts.URLLifetime <= 0 {
		opts.URLLifetime = 15 * time.Minute
	}
	return &Presigner{opts: opts}, nil
}

// StorageKey returns a fresh date-partitioned object key.
func StorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (p *Presigner) client(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.opts.AccessKey,
			p.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.opts.Endpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// PresignedPutURL returns a new storage key and a URL the client can PUT the
// object to before the lifetime elapses.
func (p *Presigner) PresignedPutURL(ctx context.Context) (string, string, error) {
	presignClient, err := p.client(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := p.opts.Bucket
	key := StorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.opts.URLLifetime))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignedGetURL returns a URL serving the object under key.
func (p *Presigner) PresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := p.client(ctx)
	if err != nil {
		return "", err
	}

	bucket := p.opts.Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.opts.URLLifetime))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
