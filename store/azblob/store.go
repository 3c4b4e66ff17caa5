package azblob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/content"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/internal/validation"
)

// blobAPI is the subset of the azblob client the store uses.
type blobAPI interface {
	UploadBuffer(
		ctx context.Context,
		containerName, blobName string,
		buffer []byte,
		o *azblob.UploadBufferOptions,
	) (azblob.UploadBufferResponse, error)
	CreateContainer(
		ctx context.Context,
		containerName string,
		o *azblob.CreateContainerOptions,
	) (azblob.CreateContainerResponse, error)
	DeleteBlob(
		ctx context.Context,
		containerName, blobName string,
		o *azblob.DeleteBlobOptions,
	) (azblob.DeleteBlobResponse, error)
}

var _ blobAPI = (*azblob.Client)(nil)

// Store uploads benchmark blobs to a single container.
type Store struct {
	client         blobAPI
	container      string
	contentType    content.Type
	deleteParallel int
	logger         *slog.Logger
}

// New creates a store for container. One of WithConnectionString or
// WithSharedKey is required.
func New(container string, opts ...Option) (*Store, error) {
	if err := validation.ValidateContainerName(container); err != nil {
		return nil, err
	}

	c := &config{deleteParallel: 16}
	for _, opt := range opts {
		opt(c)
	}

	clientOpts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
	if c.httpClient != nil {
		clientOpts.Transport = c.httpClient
	}

	var (
		client *azblob.Client
		err    error
	)
	switch {
	case c.connectionString != "":
		client, err = azblob.NewClientFromConnectionString(c.connectionString, clientOpts)
	case c.accountName != "" && c.accountKey != "":
		cred, credErr := azblob.NewSharedKeyCredential(c.accountName, c.accountKey)
		if credErr != nil {
			return nil, bencherrors.NewError("configure", fmt.Errorf("%w: %w", bencherrors.ErrInvalidConfig, credErr))
		}
		serviceURL := c.serviceURL
		if serviceURL == "" {
			serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", c.accountName)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, clientOpts)
	default:
		return nil, bencherrors.NewError("configure", bencherrors.ErrInvalidConfig).
			WithMessage("azure blob store needs a connection string or an account name and key")
	}
	if err != nil {
		return nil, bencherrors.NewError("configure", fmt.Errorf("%w: %w", bencherrors.ErrInvalidConfig, err))
	}

	s := newWithClient(client, container)
	s.contentType.Override = c.contentType
	s.deleteParallel = c.deleteParallel
	if c.logger != nil {
		s.logger = c.logger
	}
	return s, nil
}

func newWithClient(client blobAPI, container string) *Store {
	return &Store{
		client:         client,
		container:      container,
		deleteParallel: 16,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// Container returns the target container.
func (s *Store) Container() string {
	return s.container
}

// Put uploads payload as a block blob named key, overwriting any existing blob.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	contentType := s.contentType.For(payload)
	_, err := s.client.UploadBuffer(ctx, s.container, key, payload, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return convertAzureError(err)
	}
	return nil
}

// Delete removes keys, several at a time. Blobs that are already gone count
// as deleted.
func (s *Store) Delete(ctx context.Context, keys []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deleteParallel)

	for _, key := range keys {
		g.Go(func() error {
			_, err := s.client.DeleteBlob(gctx, s.container, key, nil)
			if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
				return bencherrors.NewError("delete", convertAzureError(err)).WithKey(key)
			}
			return nil
		})
	}
	return g.Wait()
}

// Prepare creates the container. An existing container is fine.
func (s *Store) Prepare(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err == nil {
		s.logger.Info("created container", "container", s.container)
		return nil
	}
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return bencherrors.NewError("prepare", convertAzureError(err))
}

// convertAzureError maps storage error codes onto the package sentinels.
func convertAzureError(err error) error {
	var sentinel error
	switch {
	case bloberror.HasCode(err, bloberror.ContainerNotFound, bloberror.ContainerBeingDeleted):
		sentinel = bencherrors.ErrBucketNotFound
	case bloberror.HasCode(err,
		bloberror.AuthenticationFailed,
		bloberror.AuthorizationFailure,
		bloberror.AuthorizationPermissionMismatch,
		bloberror.InsufficientAccountPermissions):
		sentinel = bencherrors.ErrAccessDenied
	case bloberror.HasCode(err, bloberror.ServerBusy):
		sentinel = bencherrors.ErrTooManyRequests
	case bloberror.HasCode(err, bloberror.OperationTimedOut):
		sentinel = bencherrors.ErrTimeout
	default:
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusTooManyRequests {
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
