package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParserUTF8(t *testing.T) {
	content := "第一行\nsecond line\nthird"
	path := writeFile(t, "plain.txt", []byte(content))

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, content, result.Text)
	assert.Equal(t, "utf-8", result.Metadata["encoding"])
	assert.Equal(t, 3, result.Metadata["num_lines"])
	assert.Equal(t, "plain.txt", result.Metadata["file_name"])
	assert.Len(t, result.FileHash, 64)
}

func TestTextParserUTF16LE(t *testing.T) {
	// BOM + "Hi" 的 UTF-16LE 编码
	data := []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00}
	path := writeFile(t, "utf16.txt", data)

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "Hi", result.Text)
	assert.Equal(t, "utf-16", result.Metadata["encoding"])
}

func TestTextParserUTF16BE(t *testing.T) {
	data := []byte{0xFE, 0xFF, 0x00, 'O', 0x00, 'k'}
	path := writeFile(t, "utf16be.txt", data)

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "Ok", result.Text)
	assert.Equal(t, "utf-16", result.Metadata["encoding"])
}

func TestTextParserLatin1Fallback(t *testing.T) {
	// "café" 的 latin-1 字节，0xE9 不是合法 UTF-8
	data := []byte{'c', 'a', 'f', 0xE9, '\n'}
	path := writeFile(t, "latin1.txt", data)

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "café\n", result.Text)
	assert.Equal(t, "latin-1", result.Metadata["encoding"])
}

func TestTextParserOddLengthInvalidUTF8FallsToLatin1(t *testing.T) {
	// 奇数长度排除 UTF-16，落到 latin-1
	data := []byte{0xFF, 0xFE, 0xAB}
	path := writeFile(t, "odd.txt", data)

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "latin-1", result.Metadata["encoding"])
}

func TestTextParserCharacterCountIsRunes(t *testing.T) {
	path := writeFile(t, "runes.txt", []byte("中文字符"))

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, 4, result.Metadata["num_characters"])
}

func TestTextParserMissingFile(t *testing.T) {
	p := NewTextParser()
	result := p.Parse(filepath.Join(t.TempDir(), "nope.txt"))
	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "文件不存在")
}

func TestTextParserEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", nil)

	p := NewTextParser()
	result := p.Parse(path)
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "", result.Text)
	assert.Equal(t, "utf-8", result.Metadata["encoding"])
}
