package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser 基于 ledongthuc/pdf 的 PDF 文本提取
type PDFParser struct {
	supported []string
}

func NewPDFParser() *PDFParser {
	return &PDFParser{supported: []string{".pdf"}}
}

func (p *PDFParser) SupportedExtensions() []string { return p.supported }

func (p *PDFParser) Validate(filePath string, maxSizeMB int) *ValidationResult {
	return validateFile(filePath, p.supported, maxSizeMB)
}

func (p *PDFParser) Parse(filePath string) (result *ParseResult) {
	// pdf 库对损坏文件可能 panic，统一兜成失败结果
	defer func() {
		if r := recover(); r != nil {
			result = failResult(fmt.Sprintf("PDF 解析异常: %v", r))
		}
	}()

	info, err := os.Stat(filePath)
	if err != nil {
		return failResult("读取 PDF 失败: 文件不存在")
	}

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		// 与普通 IO 错误区分开，结构损坏单独报
		return failResult(fmt.Sprintf("PDF 结构损坏，无法读取: %v", err))
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, tErr := page.GetPlainText(nil)
		if tErr != nil {
			// 单页提取失败按空页跳过，页数统计不受影响
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, fmt.Sprintf("--- Page %d ---\n%s", i, pageText))
	}

	fullText := strings.Join(pages, "\n\n")

	fileHash, hErr := FileSHA256(filePath)
	if hErr != nil {
		return failResult(fmt.Sprintf("计算文件指纹失败: %v", hErr))
	}

	return &ParseResult{
		Success:  true,
		Text:     fullText,
		FileHash: fileHash,
		Metadata: map[string]interface{}{
			"num_pages": numPages,
			"file_name": filepath.Base(filePath),
			"file_size": info.Size(),
		},
	}
}
