package main

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/config"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
	azstore "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/azblob"
	"github.com/input-output-hk/catalyst-forge-libs/blobbench/store/memstore"
	miniostore "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/minio"
	s3store "github.com/input-output-hk/catalyst-forge-libs/blobbench/store/s3"
)

const devConnectionString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNewStore(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		check  func(t *testing.T, store any)
	}{
		{
			name:   "memory",
			modify: func(c *config.Config) { c.Backend.Type = config.BackendMemory },
			check: func(t *testing.T, store any) {
				assert.IsType(t, &memstore.Store{}, store)
			},
		},
		{
			name: "s3 with static credentials",
			modify: func(c *config.Config) {
				c.Backend.Bucket = "bench-bucket"
				c.Backend.S3.Endpoint = "http://localhost:4566"
				c.Backend.S3.AccessKey = "test"
				c.Backend.S3.SecretKey = "test"
			},
			check: func(t *testing.T, store any) {
				s, ok := store.(*s3store.Store)
				require.True(t, ok)
				assert.Equal(t, "bench-bucket", s.Bucket())
			},
		},
		{
			name: "azblob",
			modify: func(c *config.Config) {
				c.Backend.Type = config.BackendAzure
				c.Backend.Bucket = "quickstartcontainer"
				c.Backend.Azure.ConnectionString = devConnectionString
			},
			check: func(t *testing.T, store any) {
				s, ok := store.(*azstore.Store)
				require.True(t, ok)
				assert.Equal(t, "quickstartcontainer", s.Container())
			},
		},
		{
			name: "minio",
			modify: func(c *config.Config) {
				c.Backend.Type = config.BackendMinIO
				c.Backend.Bucket = "bench-bucket"
				c.Backend.MinIO.Endpoint = "localhost:9000"
				c.Backend.MinIO.AccessKey = "minioadmin"
				c.Backend.MinIO.SecretKey = "minioadmin"
			},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &miniostore.Store{}, store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)

			store, err := newStore(context.Background(), cfg, http.DefaultClient, slog.New(slog.DiscardHandler))
			require.NoError(t, err)
			tt.check(t, store)
		})
	}
}

func TestNewStore_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name: "unknown backend",
			modify: func(c *config.Config) {
				c.Backend.Type = "gcs"
			},
			wantErr: errors.ErrInvalidConfig,
		},
		{
			name: "invalid s3 bucket",
			modify: func(c *config.Config) {
				c.Backend.Bucket = "Bad_Bucket"
			},
			wantErr: errors.ErrInvalidBucketName,
		},
		{
			name: "azblob without credentials",
			modify: func(c *config.Config) {
				c.Backend.Type = config.BackendAzure
				c.Backend.Bucket = "quickstartcontainer"
			},
			wantErr: errors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)

			store, err := newStore(context.Background(), cfg, http.DefaultClient, slog.New(slog.DiscardHandler))
			require.Error(t, err)
			assert.Nil(t, store)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
