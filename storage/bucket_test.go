package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketUploadAndDelete(t *testing.T) {
	b, err := NewBucket(t.TempDir(), "/storage/", "menu-images")
	require.NoError(t, err)

	key, err := b.Upload(FolderMenuItems, "Burger.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "menu-items/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	data, err := os.ReadFile(filepath.Join(b.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	url := b.PublicURL(key)
	assert.Equal(t, "/storage/menu-images/"+key, url)

	got, ok := b.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, key, got)

	require.NoError(t, b.DeleteURL(url))
	_, err = os.Stat(filepath.Join(b.Root(), filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, b.Delete(key), "deleting twice is fine")
}

func TestBucketRejectsNonImages(t *testing.T) {
	b, err := NewBucket(t.TempDir(), "/storage", "menu-images")
	require.NoError(t, err)

	_, err = b.Upload(FolderPosters, "script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestBucketKeyFromForeignURL(t *testing.T) {
	b, err := NewBucket(t.TempDir(), "/storage", "menu-images")
	require.NoError(t, err)

	_, ok := b.KeyFromURL("https://images.example.com/pizza.png")
	assert.False(t, ok)
	_, ok = b.KeyFromURL("/storage/menu-images/../../etc/passwd")
	assert.False(t, ok)
	assert.NoError(t, b.DeleteURL("https://images.example.com/pizza.png"))
}
