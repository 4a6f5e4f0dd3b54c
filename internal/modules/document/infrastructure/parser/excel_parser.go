package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 每个 sheet 最多提取的数据行数（第 2~1000 行），防止超大表格拖垮提取
const maxDataRowsPerSheet = 999

// ExcelParser 基于 excelize 的表格文本提取
// 单元格取的是公式计算后的缓存值，不会输出公式原文
type ExcelParser struct {
	supported []string
}

func NewExcelParser() *ExcelParser {
	return &ExcelParser{supported: []string{".xlsx", ".xls"}}
}

func (p *ExcelParser) SupportedExtensions() []string { return p.supported }

func (p *ExcelParser) Validate(filePath string, maxSizeMB int) *ValidationResult {
	return validateFile(filePath, p.supported, maxSizeMB)
}

func (p *ExcelParser) Parse(filePath string) (result *ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failResult(fmt.Sprintf("Excel 解析异常: %v", r))
		}
	}()

	info, err := os.Stat(filePath)
	if err != nil {
		return failResult("读取 Excel 失败: 文件不存在")
	}

	wb, err := excelize.OpenFile(filePath)
	if err != nil {
		return failResult(fmt.Sprintf("Excel 解析失败: %v", err))
	}
	defer wb.Close()

	sheetNames := wb.GetSheetList()

	sheetsContent := make([]string, 0, len(sheetNames))
	for _, name := range sheetNames {
		sheetText, sErr := extractSheetText(wb, name)
		if sErr != nil {
			return failResult(fmt.Sprintf("Excel 解析失败: %v", sErr))
		}
		if sheetText != "" {
			sheetsContent = append(sheetsContent, sheetText)
		}
	}

	fileHash, hErr := FileSHA256(filePath)
	if hErr != nil {
		return failResult(fmt.Sprintf("计算文件指纹失败: %v", hErr))
	}

	return &ParseResult{
		Success:  true,
		Text:     strings.Join(sheetsContent, "\n\n"),
		FileHash: fileHash,
		Metadata: map[string]interface{}{
			"num_sheets":  len(sheetNames),
			"sheet_names": sheetNames,
			"file_name":   filepath.Base(filePath),
			"file_size":   info.Size(),
		},
	}
}

// extractSheetText 提取单个 sheet：
//
//	=== Sheet: 名称 ===
//	Headers: a | b | c
//	（空行）
//	数据行，单元格用 " | " 连接
//
// 第一行作为表头，数据行从第 2 行起最多取 999 行，全空行跳过
// 无内容的 sheet 返回空串，由调用方整体跳过
func extractSheetText(wb *excelize.File, sheetName string) (string, error) {
	// 流式迭代，读满表头 + 999 行就停，超大表格不会整张读进内存
	iter, err := wb.Rows(sheetName)
	if err != nil {
		return "", err
	}
	defer iter.Close()

	rows := make([][]string, 0, 64)
	for iter.Next() {
		if len(rows) >= 1+maxDataRowsPerSheet {
			break
		}
		row, cErr := iter.Columns()
		if cErr != nil {
			return "", cErr
		}
		rows = append(rows, row)
	}
	if iter.Error() != nil {
		return "", iter.Error()
	}
	if len(rows) == 0 {
		return "", nil
	}

	// 行尾的空单元格会被裁掉，这里按已读行的最大列数补齐，保持各行列数一致
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}
	if maxCol == 0 {
		return "", nil
	}

	lines := []string{fmt.Sprintf("=== Sheet: %s ===", sheetName)}
	lines = append(lines, "Headers: "+strings.Join(padRow(rows[0], maxCol), " | "))
	lines = append(lines, "")

	for i := 1; i < len(rows); i++ {
		cells := padRow(rows[i], maxCol)
		if rowBlank(cells) {
			continue
		}
		lines = append(lines, strings.Join(cells, " | "))
	}

	return strings.Join(lines, "\n"), nil
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func rowBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
