package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextParser 纯文本解析，按优先级尝试多种编码
// utf-8 -> utf-16(BOM) -> latin-1 -> cp1252，用第一个解码成功的编码
type TextParser struct {
	supported []string
}

func NewTextParser() *TextParser {
	return &TextParser{supported: []string{".txt", ".md", ".text"}}
}

func (p *TextParser) SupportedExtensions() []string { return p.supported }

func (p *TextParser) Validate(filePath string, maxSizeMB int) *ValidationResult {
	return validateFile(filePath, p.supported, maxSizeMB)
}

func (p *TextParser) Parse(filePath string) (result *ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failResult(fmt.Sprintf("文本解析异常: %v", r))
		}
	}()

	info, err := os.Stat(filePath)
	if err != nil {
		return failResult("读取文本文件失败: 文件不存在")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return failResult(fmt.Sprintf("读取文本文件失败: %v", err))
	}

	text, usedEncoding, ok := decodeWithFallback(data)
	if !ok {
		return failResult("无法用支持的编码解码文件")
	}

	fileHash, hErr := FileSHA256(filePath)
	if hErr != nil {
		return failResult(fmt.Sprintf("计算文件指纹失败: %v", hErr))
	}

	return &ParseResult{
		Success:  true,
		Text:     text,
		FileHash: fileHash,
		Metadata: map[string]interface{}{
			"file_name":      filepath.Base(filePath),
			"file_size":      info.Size(),
			"encoding":       usedEncoding,
			"num_lines":      len(strings.Split(text, "\n")),
			"num_characters": utf8.RuneCountInString(text),
		},
	}
}

// decodeWithFallback 依次尝试各编码，返回文本与实际使用的编码名
func decodeWithFallback(data []byte) (string, string, bool) {
	if utf8.Valid(data) {
		return string(data), "utf-8", true
	}

	if text, ok := decodeUTF16(data); ok {
		return text, "utf-16", true
	}

	// latin-1 对任意字节都可解码，实际兜底在这里
	if out, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(out), "latin-1", true
	}

	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return string(out), "cp1252", true
	}

	return "", "", false
}

// decodeUTF16 只接受带 BOM 的 UTF-16，奇数长度直接判失败
func decodeUTF16(data []byte) (string, bool) {
	if len(data) < 2 || len(data)%2 != 0 {
		return "", false
	}

	var enc encoding.Encoding
	switch {
	case data[0] == 0xFF && data[1] == 0xFE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case data[0] == 0xFE && data[1] == 0xFF:
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return "", false
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}
