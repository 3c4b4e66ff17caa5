// Package minio implements the benchmark store on MinIO and other
// S3-compatible servers through minio-go.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/content"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
)

// minioAPI is the subset of the minio client the store uses.
type minioAPI interface {
	PutObject(
		ctx context.Context,
		bucketName, objectName string,
		reader io.Reader,
		objectSize int64,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
	RemoveObjects(
		ctx context.Context,
		bucketName string,
		objectsCh <-chan minio.ObjectInfo,
		opts minio.RemoveObjectsOptions,
	) <-chan minio.RemoveObjectError
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

var _ minioAPI = (*minio.Client)(nil)

// Config holds the connection settings.
type Config struct {
	// Endpoint is host[:port] without a scheme
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Secure    bool

	// ContentType overrides payload detection
	ContentType string

	// Transport is used for every request when set
	Transport http.RoundTripper

	Logger *slog.Logger
}

// Store uploads benchmark objects to one bucket.
type Store struct {
	client      minioAPI
	bucket      string
	region      string
	contentType content.Type
	logger      *slog.Logger
}

// New creates a store for bucket. minio-go's own retries are turned off.
func New(bucket string, cfg Config) (*Store, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		return nil, bencherrors.NewError("configure", bencherrors.ErrInvalidConfig).
			WithMessage("minio endpoint cannot be empty")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:     cfg.Secure,
		Region:     cfg.Region,
		Transport:  cfg.Transport,
		MaxRetries: 1,
	})
	if err != nil {
		return nil, bencherrors.NewError("configure", fmt.Errorf("%w: %w", bencherrors.ErrInvalidConfig, err))
	}

	s := newWithClient(client, bucket)
	s.region = cfg.Region
	s.contentType.Override = cfg.ContentType
	if cfg.Logger != nil {
		s.logger = cfg.Logger
	}
	return s, nil
}

func newWithClient(client minioAPI, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		logger: slog.New(slog.DiscardHandler),
	}
}

// Put uploads payload to key in a single request.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{
			ContentType:      s.contentType.For(payload),
			DisableMultipart: true,
		})
	if err != nil {
		return translateError(err)
	}
	return nil
}

// Delete removes keys with multi-object delete requests.
func (s *Store) Delete(ctx context.Context, keys []string) error {
	objects := make(chan minio.ObjectInfo)
	go func() {
		defer close(objects)
		for _, key := range keys {
			select {
			case objects <- minio.ObjectInfo{Key: key}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		failed int
		first  *bencherrors.Error
	)
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		failed++
		if first == nil {
			first = bencherrors.NewError("delete", translateError(rerr.Err)).WithKey(rerr.ObjectName)
		}
		s.logger.Debug("object not deleted", "key", rerr.ObjectName, "error", rerr.Err)
	}

	if first != nil {
		return first.WithMessage(fmt.Sprintf("%d of %d objects were not deleted", failed, len(keys)))
	}
	return ctx.Err()
}

// Prepare creates the bucket if it does not exist yet.
func (s *Store) Prepare(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return bencherrors.NewError("prepare", translateError(err))
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return bencherrors.NewError("prepare", translateError(err))
	}

	s.logger.Info("created bucket", "bucket", s.bucket)
	return nil
}

// translateError maps S3 error codes reported by the server onto the
// package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	var sentinel error
	switch resp.Code {
	case "NoSuchBucket":
		sentinel = bencherrors.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		sentinel = bencherrors.ErrAccessDenied
	case "SlowDown", "SlowDownWrite", "TooManyRequests":
		sentinel = bencherrors.ErrTooManyRequests
	case "RequestTimeout":
		sentinel = bencherrors.ErrTimeout
	default:
		if resp.StatusCode == http.StatusTooManyRequests {
			sentinel = bencherrors.ErrTooManyRequests
		}
	}

	if sentinel == nil {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

var (
	_ benchtypes.Store    = (*Store)(nil)
	_ benchtypes.Deleter  = (*Store)(nil)
	_ benchtypes.Preparer = (*Store)(nil)
)
