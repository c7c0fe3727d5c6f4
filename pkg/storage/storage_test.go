package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("campaigns/3", "My Photo.PNG")

	assert.True(t, strings.HasPrefix(key, "campaigns/3/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Contains(t, key, "My_Photo_")
}

func TestGenerateKey_EmptyBase(t *testing.T) {
	key := GenerateKey("media", "../.jpg")
	assert.Contains(t, key, "/file_")
}

func TestMemoryStorage_UploadAndDelete(t *testing.T) {
	m := NewMemoryStorage("http://localhost:8080/media/")

	res, err := m.Upload(context.Background(), "a/b.png", bytes.NewReader([]byte("png")), "image/png", 3)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/a/b.png", res.URL)
	assert.Equal(t, int64(3), res.Size)

	obj, err := m.Get("a/b.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, m.Delete(context.Background(), "a/b.png"))
	_, err = m.Get("a/b.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStorage_FailKeys(t *testing.T) {
	m := NewMemoryStorage("http://x")
	m.FailKeys = func(key string) bool { return strings.Contains(key, "bad") }

	_, err := m.Upload(context.Background(), "bad.png", bytes.NewReader(nil), "image/png", 0)
	assert.Error(t, err)
	assert.Equal(t, 0, m.Len())
}
