package blob

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	key := ImageKey("user-1", "image/jpeg")
	assert.True(t, strings.HasPrefix(key, "receipts/user-1/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ImageKey("user-1", "image/jpeg"))

	assert.False(t, strings.Contains(ImageKey("user-1", "image/x-unknown"), "."))
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/images")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "receipts/u1/a.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/images/receipts/u1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "receipts", "u1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "receipts/u1/a.png"))
	_, err = os.Stat(filepath.Join(dir, "receipts", "u1", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// Missing objects delete cleanly.
	assert.NoError(t, store.Delete(ctx, "receipts/u1/a.png"))
}

func TestDiskStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/images")
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../outside.png", `receipts\x.png`} {
		_, err := store.Put(context.Background(), key, "image/png", []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	body    []byte
	deletes []*s3.DeleteObjectInput
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	api := &fakeS3{}
	store := newS3Store(api, S3Config{Bucket: "smartsplit", Region: "us-east-1"})
	ctx := context.Background()

	url, err := store.Put(ctx, "receipts/u1/a.jpg", "image/jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "https://smartsplit.s3.us-east-1.amazonaws.com/receipts/u1/a.jpg", url)
	require.Len(t, api.puts, 1)
	assert.Equal(t, "smartsplit", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "jpeg", string(api.body))

	require.NoError(t, store.Delete(ctx, "receipts/u1/a.jpg"))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, "receipts/u1/a.jpg", aws.ToString(api.deletes[0].Key))
}

func TestS3Store_CustomEndpointURL(t *testing.T) {
	store := newS3Store(&fakeS3{}, S3Config{Bucket: "receipts", Endpoint: "http://localhost:4566/"})

	url, err := store.Put(context.Background(), "receipts/u1/b.png", "image/png", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566/receipts/receipts/u1/b.png", url)
}
