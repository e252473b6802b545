package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()

	p, err := NewPresigner(Options{
		Bucket:    "mosaic-media",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	return p
}

func stubSeams(t *testing.T) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func TestNewPresigner_RequiresBucket(t *testing.T) {
	_, err := NewPresigner(Options{})
	assert.Error(t, err)
}

func TestStorageKey(t *testing.T) {
	a := StorageKey()
	b := StorageKey()

	assert.True(t, strings.HasPrefix(a, "users/"))
	assert.NotEqual(t, a, b)
}

func TestPresigner_ClientAppliesOptions(t *testing.T) {
	stubSeams(t)
	p := newTestPresigner(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var capturedEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		capturedEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}

	_, err := p.client(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", capturedEndpoint)
}

func TestPresigner_PresignedPutURL(t *testing.T) {
	stubSeams(t)
	p := newTestPresigner(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "mosaic-media", *in.Bucket)
		assert.True(t, strings.HasPrefix(*in.Key, "users/"))

		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 15*time.Minute, po.Expires)

		return &v4.PresignedHTTPRequest{URL: "http://signed-put/" + *in.Key}, nil
	}

	key, url, err := p.PresignedPutURL(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.Equal(t, "http://signed-put/"+key, url)
}

func TestPresigner_PresignedGetURL(t *testing.T) {
	stubSeams(t)
	p := newTestPresigner(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "mosaic-media", *in.Bucket)
		assert.Equal(t, "users/2026/8/28/key", *in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://signed-get"}, nil
	}

	url, err := p.PresignedGetURL(context.Background(), "users/2026/8/28/key")
	require.NoError(t, err)
	assert.Equal(t, "http://signed-get", url)
}

func TestPresigner_SurfacesPresignErrors(t *testing.T) {
	stubSeams(t)
	p := newTestPresigner(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, fmt.Errorf("signing failed")
	}

	_, _, err := p.PresignedPutURL(context.Background())
	assert.Error(t, err)
}
