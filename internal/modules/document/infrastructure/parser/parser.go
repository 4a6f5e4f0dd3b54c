package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CaseForge/pkg/util"
)

// ParseResult 单次解析的结果，失败时 Text/FileHash 为空且 Err 带失败原因
// 解析器内部吞掉一切异常，绝不向外层抛出
type ParseResult struct {
	Success  bool
	Text     string
	FileHash string
	Metadata map[string]interface{}
	Err      string
}

// ValidationResult 解析前置校验结果
type ValidationResult struct {
	Valid bool
	Err   string
}

// DocumentParser 文档解析器统一契约
type DocumentParser interface {
	// Parse 提取文本并计算内容指纹
	Parse(filePath string) *ParseResult
	// Validate 解析前校验：存在性 -> 扩展名 -> 大小，遇到第一个失败即返回
	Validate(filePath string, maxSizeMB int) *ValidationResult
	// SupportedExtensions 该解析器支持的扩展名（小写，含点）
	SupportedExtensions() []string
}

// ParserFor 按扩展名选择解析器，未知类型返回 nil，由调用方按"无可用解析器"处理
func ParserFor(fileExtension string) DocumentParser {
	switch strings.ToLower(fileExtension) {
	case ".pdf":
		return NewPDFParser()
	case ".xlsx", ".xls":
		return NewExcelParser()
	case ".txt", ".md", ".text":
		return NewTextParser()
	default:
		return nil
	}
}

func failResult(errMsg string) *ParseResult {
	return &ParseResult{
		Success:  false,
		Metadata: map[string]interface{}{},
		Err:      errMsg,
	}
}

// validateFile 三段式校验，各解析器共用同一实现，只是扩展名集合与大小上限不同
func validateFile(filePath string, supported []string, maxSizeMB int) *ValidationResult {
	info, err := os.Stat(filePath)
	if err != nil {
		return &ValidationResult{Valid: false, Err: "文件不存在"}
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if !extSupported(ext, supported) {
		return &ValidationResult{Valid: false, Err: fmt.Sprintf("不支持的文件类型: %s", ext)}
	}

	if util.BytesToMB(info.Size()) > float64(maxSizeMB) {
		return &ValidationResult{
			Valid: false,
			Err:   fmt.Sprintf("文件过大: %.2fMB (上限 %dMB)", util.BytesToMB(info.Size()), maxSizeMB),
		}
	}

	return &ValidationResult{Valid: true}
}

func extSupported(ext string, supported []string) bool {
	for _, s := range supported {
		if ext == s {
			return true
		}
	}
	return false
}
