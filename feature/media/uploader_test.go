package media

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"qr-registry/core/reconcile"
	"qr-registry/core/storage"
	"qr-registry/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func writeFile(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func testConfig() storage.Config {
	return storage.Config{Bucket: "media", MediaPrefix: "qr", PresignExpiryHours: 24}
}

func TestUpload_PublicURL(t *testing.T) {
	client := new(mocks.Client)
	cfg := testConfig()
	cfg.PublicURL = "https://cdn.example.com/"
	u := NewUploader(client, cfg, zap.NewNop())

	path := writeFile(t, t.TempDir(), "photo one.png", pngHeader)

	var key string
	client.On("PutObject", mock.Anything, "media", mock.Anything, mock.Anything, int64(len(pngHeader)),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "image/png" })).
		Run(func(args mock.Arguments) { key = args.String(2) }).
		Return(minio.UploadInfo{}, nil).Once()

	ref, err := u.Upload(context.Background(), "file://"+path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "qr/"))
	assert.True(t, strings.HasSuffix(key, "-photo_one.png"))
	assert.Equal(t, "https://cdn.example.com/media/"+key, ref)
	client.AssertNotCalled(t, "PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_Presigned(t *testing.T) {
	client := new(mocks.Client)
	u := NewUploader(client, testConfig(), zap.NewNop())
	path := writeFile(t, t.TempDir(), "a.png", pngHeader)

	signed, _ := url.Parse("http://localhost:9000/media/qr/x-a.png?X-Amz-Signature=abc")
	client.On("PutObject", mock.Anything, "media", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	client.On("PresignedGetObject", mock.Anything, "media", mock.Anything, 24*time.Hour, mock.Anything).
		Return(signed, nil).Once()

	ref, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, signed.String(), ref)
}

func TestUpload_DistinctKeysForSameBaseName(t *testing.T) {
	client := new(mocks.Client)
	cfg := testConfig()
	cfg.PublicURL = "https://cdn"
	u := NewUploader(client, cfg, zap.NewNop())

	a := writeFile(t, t.TempDir(), "img.png", pngHeader)
	b := writeFile(t, t.TempDir(), "img.png", pngHeader)

	client.On("PutObject", mock.Anything, "media", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil).Twice()

	refA, err := u.Upload(context.Background(), a)
	require.NoError(t, err)
	refB, err := u.Upload(context.Background(), b)
	require.NoError(t, err)
	assert.NotEqual(t, refA, refB)
}

func TestUpload_Failures(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "notes.txt", []byte("just some text"))
	img := writeFile(t, dir, "ok.png", pngHeader)

	tests := []struct {
		name   string
		handle string
		put    error
	}{
		{name: "empty handle", handle: "  "},
		{name: "missing file", handle: filepath.Join(dir, "gone.png")},
		{name: "directory", handle: dir},
		{name: "not an image", handle: text},
		{name: "transport error", handle: img, put: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.Client)
			if tt.put != nil {
				client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(minio.UploadInfo{}, tt.put)
			}
			u := NewUploader(client, testConfig(), zap.NewNop())

			ref, err := u.Upload(context.Background(), tt.handle)
			assert.ErrorIs(t, err, reconcile.ErrUploadFailed)
			assert.Empty(t, ref)
			if tt.put == nil {
				client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestNewUploader_ClampsExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.PresignExpiryHours = 10000
	assert.Equal(t, maxPresignExpiry, NewUploader(nil, cfg, zap.NewNop()).expiry)

	cfg.PresignExpiryHours = 0
	assert.Equal(t, maxPresignExpiry, NewUploader(nil, cfg, zap.NewNop()).expiry)
}

func TestEnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "media").Return(true, nil)

		require.NoError(t, NewUploader(client, testConfig(), zap.NewNop()).EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "media").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "media", mock.Anything).Return(nil).Once()

		require.NoError(t, NewUploader(client, testConfig(), zap.NewNop()).EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "media").Return(false, assert.AnError)

		assert.ErrorIs(t, NewUploader(client, testConfig(), zap.NewNop()).EnsureBucket(context.Background()), assert.AnError)
	})
}

func TestSpool(t *testing.T) {
	s, err := NewSpool(t.TempDir())
	require.NoError(t, err)

	handle, err := s.Write("../../etc/cam shot.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(handle))
	assert.True(t, strings.HasSuffix(handle, "-cam_shot.png"))

	data, err := os.ReadFile(handle)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	outside := writeFile(t, t.TempDir(), "keep.png", pngHeader)
	s.Release(outside)
	assert.FileExists(t, outside)

	s.Release(handle)
	assert.NoFileExists(t, handle)
}

func TestSpool_Check(t *testing.T) {
	s, err := NewSpool(t.TempDir())
	require.NoError(t, err)

	handle, err := s.Write("shot.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	outside := writeFile(t, t.TempDir(), "private.png", pngHeader)

	assert.True(t, s.Owns(handle))
	assert.True(t, s.Owns("file://"+filepath.ToSlash(handle)))
	assert.False(t, s.Owns(outside))
	assert.False(t, s.Owns(filepath.Join(s.Dir(), "..", "private.png")))
	assert.False(t, s.Owns(s.Dir()))

	assert.NoError(t, s.Check(handle))
	assert.NoError(t, s.Check("https://cdn.example.com/media/qr/a.png"))
	assert.NoError(t, s.Check(""))
	assert.ErrorIs(t, s.Check(outside), ErrUnspooledMedia)
	assert.ErrorIs(t, s.Check("/etc/passwd"), ErrUnspooledMedia)
}
