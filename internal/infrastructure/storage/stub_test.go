package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	t.Run("round-trips uploads", func(t *testing.T) {
		stub := NewStubObjectStorage("mp-user-images")

		err := stub.Upload(context.Background(), "user-images/7/avatar.png", "image/png", []byte("png-bytes"))
		require.NoError(t, err)

		data, ok := stub.Object("user-images/7/avatar.png")
		assert.True(t, ok)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("presigned URL names bucket and key", func(t *testing.T) {
		stub := NewStubObjectStorage("mp-user-images")

		url, err := stub.PresignGet(context.Background(), "user-images/7/avatar.png", time.Hour)

		assert.NoError(t, err)
		assert.Contains(t, url, "mp-user-images/user-images/7/avatar.png")
		assert.Contains(t, url, "expires=")
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		stub := NewStubObjectStorage("mp-user-images")

		assert.Error(t, stub.Upload(context.Background(), "", "image/png", nil))
		_, err := stub.PresignGet(context.Background(), "", time.Hour)
		assert.Error(t, err)
	})

	t.Run("bucket name is stable", func(t *testing.T) {
		stub := NewStubObjectStorage("mp-user-images")
		assert.Equal(t, "mp-user-images", stub.BucketName())
	})
}
