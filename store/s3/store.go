package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/content"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
)

// maxDeleteBatch is the largest DeleteObjects request S3 accepts.
const maxDeleteBatch = 1000

// Store uploads benchmark objects to a single S3 bucket.
type Store struct {
	client s3api.S3API
	bucket string
	region string
	logger *slog.Logger

	contentType content.Type
}

// New creates a store for bucket. Credentials come from the default AWS
// chain unless WithStaticCredentials or WithAWSConfig is given.
func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	var cfg aws.Config
	if c.awsConfig != nil {
		cfg = c.awsConfig.Copy()
	} else {
		loadOpts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRetryMaxAttempts(1),
		}
		if c.accessKey != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(c.accessKey, c.secretKey, c.sessionToken),
			))
		}
		var err error
		cfg, err = awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, bencherrors.NewError("configure", err).WithMessage("load AWS configuration")
		}
	}

	if c.region != "" {
		cfg.Region = c.region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.RetryMaxAttempts = 1
		o.UsePathStyle = c.forcePathStyle
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
		if c.httpClient != nil {
			o.HTTPClient = c.httpClient
		}
	})

	s := NewWithClient(client, bucket)
	s.region = cfg.Region
	s.contentType.Override = c.contentType
	if c.logger != nil {
		s.logger = c.logger
	}
	return s, nil
}

// NewWithClient creates a store with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(client s3api.S3API, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		region: "us-east-1",
		logger: slog.New(slog.DiscardHandler),
	}
}

// Bucket returns the target bucket.
func (s *Store) Bucket() string {
	return s.bucket
}

// Put uploads payload to key with a single PutObject request.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(s.contentType.For(payload)),
	})
	if err != nil {
		return convertAWSError(err)
	}
	return nil
}

// Delete removes keys in batches of up to 1000.
func (s *Store) Delete(ctx context.Context, keys []string) error {
	failed := 0
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return bencherrors.NewError("delete", convertAWSError(err))
		}
		for _, e := range out.Errors {
			s.logger.Debug("object not deleted",
				"key", aws.ToString(e.Key),
				"code", aws.ToString(e.Code),
				"message", aws.ToString(e.Message),
			)
		}
		failed += len(out.Errors)
	}

	if failed > 0 {
		return bencherrors.NewError("delete", fmt.Errorf("%d of %d objects were not deleted", failed, len(keys)))
	}
	return nil
}

// Prepare creates the bucket if it does not exist yet.
func (s *Store) Prepare(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if converted := convertAWSError(err); !bencherrors.IsBucketNotFound(converted) {
		return bencherrors.NewError("prepare", converted)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return bencherrors.NewError("prepare", convertAWSError(err))
	}

	s.logger.Info("created bucket", "bucket", s.bucket, "region", s.region)
	return nil
}

var (
	_ benchtypes.Store    = (*Store)(nil)
	_ benchtypes.Deleter  = (*Store)(nil)
	_ benchtypes.Preparer = (*Store)(nil)
)
