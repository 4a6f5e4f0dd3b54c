package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

const hashChunkSize = 4096

// FileSHA256 对原始文件字节做流式 SHA-256，十六进制输出
// 指纹基于字节而不是提取出的文本，三个解析器共用本实现，保证跨格式一致
func FileSHA256(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, rErr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if rErr == io.EOF {
			break
		}
		if rErr != nil {
			return "", rErr
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
