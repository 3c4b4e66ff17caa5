// Package oci implements the benchmark store on Oracle Cloud Infrastructure
// Object Storage.
//
// Credentials are read from an OCI CLI configuration file. Every upload is
// one PutObject request with the SDK retry policy replaced by NoRetryPolicy.
package oci

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/content"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
)

// objectStorageAPI is the subset of the object storage client the store uses.
type objectStorageAPI interface {
	GetNamespace(ctx context.Context, request objectstorage.GetNamespaceRequest) (objectstorage.GetNamespaceResponse, error)
	PutObject(ctx context.Context, request objectstorage.PutObjectRequest) (objectstorage.PutObjectResponse, error)
	DeleteObject(ctx context.Context, request objectstorage.DeleteObjectRequest) (objectstorage.DeleteObjectResponse, error)
	HeadBucket(ctx context.Context, request objectstorage.HeadBucketRequest) (objectstorage.HeadBucketResponse, error)
	CreateBucket(ctx context.Context, request objectstorage.CreateBucketRequest) (objectstorage.CreateBucketResponse, error)
}

var _ objectStorageAPI = objectstorage.ObjectStorageClient{}

// Config holds the OCI settings.
type Config struct {
	// ConfigFile is the OCI CLI configuration file; empty means ~/.oci/config
	ConfigFile string

	// Profile selects the section of ConfigFile; empty means DEFAULT
	Profile string

	// Namespace skips the namespace lookup when set
	Namespace string

	// CompartmentID is required to create the bucket
	CompartmentID string

	// HTTPClient is used for every request when set
	HTTPClient *http.Client

	ContentType string

	// DeleteParallelism bounds concurrent deletes during cleanup; default 16
	DeleteParallelism int

	Logger *slog.Logger
}

// Store uploads benchmark objects to one bucket.
type Store struct {
	client         objectStorageAPI
	namespace      string
	bucket         string
	compartmentID  string
	contentType    content.Type
	deleteParallel int
	logger         *slog.Logger
	noRetry        common.RetryPolicy
}

// New creates a store for bucket and resolves the tenancy namespace.
func New(ctx context.Context, bucket string, cfg Config) (*Store, error) {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	profile := cfg.Profile
	if profile == "" {
		profile = "DEFAULT"
	}

	var provider common.ConfigurationProvider
	if cfg.ConfigFile != "" {
		provider = common.CustomProfileConfigProvider(cfg.ConfigFile, profile)
	} else if profile != "DEFAULT" {
		provider = common.CustomProfileConfigProvider("", profile)
	} else {
		provider = common.DefaultConfigProvider()
	}

	client, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, bencherrors.NewError("configure", fmt.Errorf("%w: %w", bencherrors.ErrInvalidConfig, err))
	}
	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}

	s := newWithClient(client, bucket)
	s.compartmentID = cfg.CompartmentID
	s.contentType.Override = cfg.ContentType
	if cfg.DeleteParallelism > 0 {
		s.deleteParallel = cfg.DeleteParallelism
	}
	if cfg.Logger != nil {
		s.logger = cfg.Logger
	}

	s.namespace = cfg.Namespace
	if s.namespace == "" {
		resp, err := client.GetNamespace(ctx, objectstorage.GetNamespaceRequest{})
		if err != nil {
			return nil, bencherrors.NewError("configure", translateError(err)).WithMessage("resolve namespace")
		}
		s.namespace = *resp.Value
	}
	return s, nil
}

func newWithClient(client objectStorageAPI, bucket string) *Store {
	return &Store{
		client:         client,
		bucket:         bucket,
		deleteParallel: 16,
		logger:         slog.New(slog.DiscardHandler),
		noRetry:        common.NoRetryPolicy(),
	}
}

// Namespace returns the resolved object storage namespace.
func (s *Store) Namespace() string {
	return s.namespace
}

// Put uploads payload to key in a single request.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.client.PutObject(ctx, objectstorage.PutObjectRequest{
		NamespaceName: common.String(s.namespace),
		BucketName:    common.String(s.bucket),
		ObjectName:    common.String(key),
		ContentLength: common.Int64(int64(len(payload))),
		ContentType:   common.String(s.contentType.For(payload)),
		PutObjectBody: io.NopCloser(bytes.NewReader(payload)),
		RequestMetadata: common.RequestMetadata{
			RetryPolicy: &s.noRetry,
		},
	})
	if err != nil {
		return translateError(err)
	}
	return nil
}

// Delete removes keys, several at a time. Objects already gone count as deleted.
func (s *Store) Delete(ctx context.Context, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deleteParallel)

	for _, key := range keys {
		g.Go(func() error {
			_, err := s.client.DeleteObject(gctx, objectstorage.DeleteObjectRequest{
				NamespaceName: common.String(s.namespace),
				BucketName:    common.String(s.bucket),
				ObjectName:    common.String(key),
			})
			if err != nil && statusCode(err) != http.StatusNotFound {
				return bencherrors.NewError("delete", translateError(err)).WithKey(key)
			}
			return nil
		})
	}
	return g.Wait()
}

// Prepare creates the bucket in CompartmentID if it does not exist yet.
func (s *Store) Prepare(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, objectstorage.HeadBucketRequest{
		NamespaceName: common.String(s.namespace),
		BucketName:    common.String(s.bucket),
	})
	if err == nil {
		return nil
	}
	if statusCode(err) != http.StatusNotFound {
		return bencherrors.NewError("prepare", translateError(err))
	}

	if s.compartmentID == "" {
		return bencherrors.NewError("prepare", bencherrors.ErrInvalidConfig).
			WithMessage("a compartment id is required to create bucket " + s.bucket)
	}

	_, err = s.client.CreateBucket(ctx, objectstorage.CreateBucketRequest{
		NamespaceName: common.String(s.namespace),
		CreateBucketDetails: objectstorage.CreateBucketDetails{
			Name:          common.String(s.bucket),
			CompartmentId: common.String(s.compartmentID),
		},
	})
	if err != nil {
		if serviceCode(err) == "BucketAlreadyExists" {
			return nil
		}
		return bencherrors.NewError("prepare", translateError(err))
	}

	s.logger.Info("created bucket", "bucket", s.bucket, "namespace", s.namespace)
	return nil
}

func statusCode(err error) int {
	var svcErr common.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.GetHTTPStatusCode()
	}
	return 0
}

func serviceCode(err error) string {
	var svcErr common.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.GetCode()
	}
	return ""
}

// translateError maps OCI service errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sentinel error
	switch code := serviceCode(err); {
	case code == "BucketNotFound":
		sentinel = bencherrors.ErrBucketNotFound
	case code == "NotAuthenticated", code == "NotAuthorizedOrNotFound", statusCode(err) == http.StatusForbidden:
		sentinel = bencherrors.ErrAccessDenied
	case code == "TooManyRequests", statusCode(err) == http.StatusTooManyRequests:
		sentinel = bencherrors.ErrTooManyRequests
	case code == "RequestTimeout":
		sentinel = bencherrors.ErrTimeout
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
