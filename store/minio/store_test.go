package minio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bencherrors "github.com/input-output-hk/catalyst-forge-libs/blobbench/errors"
)

type fakeMinio struct {
	putErr    error
	exists    bool
	existsErr error
	makeErr   error
	removeErr map[string]error

	putOpts  minio.PutObjectOptions
	putBody  []byte
	putSize  int64
	made     bool
	received []string
}

func (f *fakeMinio) PutObject(
	_ context.Context,
	_, _ string,
	reader io.Reader,
	size int64,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.putBody, f.putSize, f.putOpts = body, size, opts
	return minio.UploadInfo{Size: size}, nil
}

func (f *fakeMinio) RemoveObjects(
	_ context.Context,
	_ string,
	objects <-chan minio.ObjectInfo,
	_ minio.RemoveObjectsOptions,
) <-chan minio.RemoveObjectError {
	out := make(chan minio.RemoveObjectError)
	go func() {
		defer close(out)
		for obj := range objects {
			f.received = append(f.received, obj.Key)
			if err := f.removeErr[obj.Key]; err != nil {
				out <- minio.RemoveObjectError{ObjectName: obj.Key, Err: err}
			}
		}
	}()
	return out
}

func (f *fakeMinio) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeMinio) MakeBucket(context.Context, string, minio.MakeBucketOptions) error {
	f.made = true
	return f.makeErr
}

func s3Error(code string, status int) error {
	return minio.ErrorResponse{Code: code, StatusCode: status, Message: code}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		cfg     Config
		wantErr error
	}{
		{name: "valid", bucket: "bench-bucket", cfg: Config{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123"}},
		{name: "missing endpoint", bucket: "bench-bucket", wantErr: bencherrors.ErrInvalidConfig},
		{name: "endpoint with scheme", bucket: "bench-bucket", cfg: Config{Endpoint: "http://localhost:9000"}, wantErr: bencherrors.ErrInvalidConfig},
		{name: "invalid bucket", bucket: "UPPER", cfg: Config{Endpoint: "localhost:9000"}, wantErr: bencherrors.ErrInvalidBucketName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(tt.bucket, tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, store)
		})
	}
}

func TestStore_Put(t *testing.T) {
	fake := &fakeMinio{}
	store := newWithClient(fake, "bench-bucket")

	payload := []byte{0x00, 0x9f, 0x44, 0x12, 0xfe}
	require.NoError(t, store.Put(context.Background(), "quickstart-1.txt", payload))

	assert.Equal(t, payload, fake.putBody)
	assert.Equal(t, int64(len(payload)), fake.putSize)
	assert.True(t, fake.putOpts.DisableMultipart)
	assert.Equal(t, "application/octet-stream", fake.putOpts.ContentType)
}

func TestStore_Put_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no bucket", err: s3Error("NoSuchBucket", 404), want: bencherrors.ErrBucketNotFound},
		{name: "denied", err: s3Error("AccessDenied", 403), want: bencherrors.ErrAccessDenied},
		{name: "slow down", err: s3Error("SlowDown", 503), want: bencherrors.ErrTooManyRequests},
		{name: "throttled status", err: s3Error("", http.StatusTooManyRequests), want: bencherrors.ErrTooManyRequests},
		{name: "request timeout", err: s3Error("RequestTimeout", 400), want: bencherrors.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newWithClient(&fakeMinio{putErr: tt.err}, "bench-bucket").Put(context.Background(), "k", []byte("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	plain := errors.New("connection refused")
	err := newWithClient(&fakeMinio{putErr: plain}, "bench-bucket").Put(context.Background(), "k", nil)
	assert.Equal(t, plain, err)
}

func TestStore_Delete(t *testing.T) {
	fake := &fakeMinio{}
	keys := []string{"a", "b", "c"}
	require.NoError(t, newWithClient(fake, "bench-bucket").Delete(context.Background(), keys))
	assert.Equal(t, keys, fake.received)
}

func TestStore_Delete_Failures(t *testing.T) {
	fake := &fakeMinio{removeErr: map[string]error{
		"b": s3Error("AccessDenied", 403),
		"c": s3Error("AccessDenied", 403),
	}}
	err := newWithClient(fake, "bench-bucket").Delete(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, bencherrors.ErrAccessDenied)
	assert.Equal(t, "b", bencherrors.KeyOf(err))
	assert.Contains(t, err.Error(), "2 of 3 objects were not deleted")
}

func TestStore_Prepare(t *testing.T) {
	tests := []struct {
		name     string
		fake     *fakeMinio
		wantMade bool
		wantErr  error
	}{
		{name: "exists", fake: &fakeMinio{exists: true}},
		{name: "created", fake: &fakeMinio{}, wantMade: true},
		{name: "owned", fake: &fakeMinio{makeErr: s3Error("BucketAlreadyOwnedByYou", 409)}, wantMade: true},
		{name: "lookup denied", fake: &fakeMinio{existsErr: s3Error("AccessDenied", 403)}, wantErr: bencherrors.ErrAccessDenied},
		{name: "create denied", fake: &fakeMinio{makeErr: s3Error("AccessDenied", 403)}, wantMade: true, wantErr: bencherrors.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newWithClient(tt.fake, "bench-bucket").Prepare(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantMade, tt.fake.made)
		})
	}
}
