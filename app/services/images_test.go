package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedImageExtension(t *testing.T) {
	assert.True(t, AllowedImageExtension("photo.jpg"))
	assert.True(t, AllowedImageExtension("photo.JPEG"))
	assert.True(t, AllowedImageExtension("photo.png"))
	assert.True(t, AllowedImageExtension("photo.gif"))

	assert.False(t, AllowedImageExtension("script.php"))
	assert.False(t, AllowedImageExtension("archive.zip"))
	assert.False(t, AllowedImageExtension("noextension"))
}

func TestSaveUploadRejectsBadExtensionBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	_, err = store.SaveUpload(strings.NewReader("<?php ?>"), "shell.php")
	require.Error(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files, "rejected uploads must leave nothing on disk")
}

func TestSaveUploadRandomizesName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	filename, err := store.SaveUpload(strings.NewReader("fake image bytes"), "original.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, "original.jpg", filename)
	assert.Equal(t, ".jpg", filepath.Ext(filename))

	content, err := os.ReadFile(store.Path(filename))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))
}

func TestPathStripsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	path := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "passwd"), path)
}

func TestVariantFilename(t *testing.T) {
	assert.Equal(t, "abc_thumbnail.jpg", VariantFilename("abc.jpg", "thumbnail"))
	assert.Equal(t, "abc_large.png", VariantFilename("abc.png", "large"))
	assert.Equal(t, "abc.jpg", VariantFilename("abc.jpg", "original"))
	assert.Equal(t, "abc.jpg", VariantFilename("abc.jpg", ""))
}

func TestRemoveMissingFileIsQuiet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewImageStore(dir)
	require.NoError(t, err)

	store.Remove("does-not-exist.jpg")
	store.Remove("")
}
