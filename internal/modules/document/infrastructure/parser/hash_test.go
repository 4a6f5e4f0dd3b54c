package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileSHA256KnownVector(t *testing.T) {
	path := writeFile(t, "hello.txt", []byte("hello world"))
	hash, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", hash)
	assert.Len(t, hash, 64)
}

func TestFileSHA256Deterministic(t *testing.T) {
	data := []byte("同一份内容")
	a, err := FileSHA256(writeFile(t, "a.txt", data))
	require.NoError(t, err)
	b, err := FileSHA256(writeFile(t, "b.txt", data))
	require.NoError(t, err)
	// 指纹只看内容，文件名无关
	assert.Equal(t, a, b)
}

func TestFileSHA256SensitiveToSingleByte(t *testing.T) {
	a, err := FileSHA256(writeFile(t, "a.txt", []byte("content v1")))
	require.NoError(t, err)
	b, err := FileSHA256(writeFile(t, "b.txt", []byte("content v2")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFileSHA256LargerThanChunk(t *testing.T) {
	// 跨多个 4096 字节块也要和一次性计算一致
	data := make([]byte, hashChunkSize*3+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	want := sha256.Sum256(data)

	hash, err := FileSHA256(writeFile(t, "big.bin", data))
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), hash)
}

func TestFileSHA256EmptyFile(t *testing.T) {
	hash, err := FileSHA256(writeFile(t, "empty.txt", nil))
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hash)
}

func TestFileSHA256MissingFile(t *testing.T) {
	_, err := FileSHA256(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}
