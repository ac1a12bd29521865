package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestDataURI(t *testing.T) {
	uri := EncodeDataURI("image/png", pngHeader)
	data, mime, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)

	// 纯base64按文件头识别
	data, mime, err = DecodeDataURI(uri[len("data:image/png;base64,"):])
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, pngHeader, data)

	for _, bad := range []string{"", "  ", "data:image/png,abc", "data:image/png;base64", "data:image/png;base64,%%%"} {
		_, _, err := DecodeDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidDataURI, bad)
	}
}

func TestSniffImageMime(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{pngHeader, "image/png"},
		{[]byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg"},
		{[]byte("GIF89a...."), "image/gif"},
		{[]byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{[]byte("BM\x00\x00"), "image/bmp"},
		{[]byte("hello"), "application/octet-stream"},
		{nil, "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SniffImageMime(tt.data))
	}
	assert.Equal(t, "jpeg", ImageExt("image/jpg"))
	assert.Equal(t, "", ImageExt("application/pdf"))
}

func TestIDs(t *testing.T) {
	require.NoError(t, InitNode(3))
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)

	id, err := ParseID(FormatID(a))
	require.NoError(t, err)
	assert.Equal(t, a, id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.bin")
	require.NoError(t, SaveFile(path, []byte("x")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
