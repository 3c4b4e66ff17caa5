package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/config"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	azstore "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/azblob"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/store/memstore"
	miniostore "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/minio"
	ocistore "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/oci"
	s3store "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/s3"
)

// newStore builds the backend named in cfg. Every network backend shares client.
func newStore(
	ctx context.Context,
	cfg *config.Config,
	client *http.Client,
	logger *slog.Logger,
) (benchtypes.Store, error) {
	b := cfg.Backend

	switch b.Type {
	case config.BackendS3:
		opts := []s3store.Option{
			s3store.WithRegion(b.S3.Region),
			s3store.WithForcePathStyle(b.S3.ForcePathStyle),
			s3store.WithHTTPClient(client),
			s3store.WithLogger(logger),
		}
		if b.S3.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(b.S3.Endpoint))
		}
		if b.S3.AccessKey != "" {
			opts = append(opts, s3store.WithStaticCredentials(b.S3.AccessKey, b.S3.SecretKey, b.S3.SessionToken))
		}
		return storeOrNil(s3store.New(ctx, b.Bucket, opts...))

	case config.BackendAzure:
		opts := []azstore.Option{
			azstore.WithHTTPClient(client),
			azstore.WithLogger(logger),
		}
		if b.Azure.ConnectionString != "" {
			opts = append(opts, azstore.WithConnectionString(b.Azure.ConnectionString))
		} else {
			opts = append(opts, azstore.WithSharedKey(b.Azure.AccountName, b.Azure.AccountKey))
		}
		if b.Azure.ServiceURL != "" {
			opts = append(opts, azstore.WithServiceURL(b.Azure.ServiceURL))
		}
		return storeOrNil(azstore.New(b.Bucket, opts...))

	case config.BackendMinIO:
		return storeOrNil(miniostore.New(b.Bucket, miniostore.Config{
			Endpoint:  b.MinIO.Endpoint,
			AccessKey: b.MinIO.AccessKey,
			SecretKey: b.MinIO.SecretKey,
			Region:    b.MinIO.Region,
			Secure:    b.MinIO.Secure,
			Transport: client.Transport,
			Logger:    logger,
		}))

	case config.BackendOCI:
		return storeOrNil(ocistore.New(ctx, b.Bucket, ocistore.Config{
			ConfigFile:    b.OCI.ConfigFile,
			Profile:       b.OCI.Profile,
			Namespace:     b.OCI.Namespace,
			CompartmentID: b.OCI.CompartmentID,
			HTTPClient:    client,
			Logger:        logger,
		}))

	case config.BackendMemory:
		return memstore.New(b.Memory.Delay), nil

	default:
		return nil, errors.NewError("configure", errors.ErrInvalidConfig).
			WithMessage(fmt.Sprintf("unknown backend type %q", b.Type))
	}
}

// storeOrNil keeps a failed constructor from returning a typed nil inside
// a non-nil interface.
func storeOrNil[S benchtypes.Store](s S, err error) (benchtypes.Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
