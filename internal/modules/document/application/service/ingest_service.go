package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"CaseForge/internal/modules/document/domain/entity"
	"CaseForge/internal/modules/document/infrastructure/parser"
	"CaseForge/pkg/zlog"

	"go.uber.org/zap"
)

// IngestOutcome 一次入库尝试的判定结果
type IngestOutcome string

const (
	IngestCreated           IngestOutcome = "created"            // 新指纹，调用方持久化 Created 载荷
	IngestReactivated       IngestOutcome = "reactivated"        // 指纹命中已停用记录，调用方只需翻转 is_active
	IngestRejectedDuplicate IngestOutcome = "rejected_duplicate" // 指纹命中活跃记录，拒绝
	IngestRejectedInvalid   IngestOutcome = "rejected_invalid"   // 校验失败或无可用解析器
	IngestFailed            IngestOutcome = "failed"             // 解析失败或未预期异常
)

// IngestInput 入库请求：文件已落盘，路径由调用方负责清理
type IngestInput struct {
	Path      string
	Filename  string
	Category  string
	MaxSizeMB int
}

// IngestDecision 判定结果与各结果所需的最小载荷
type IngestDecision struct {
	Outcome IngestOutcome

	// RejectedInvalid / Failed
	Reason string

	// RejectedDuplicate
	ExistingFilename string
	// Reactivated
	ExistingId int64

	// Created 载荷，调用方据此落库
	Filename string
	FileType string
	DocType  string
	FileSize int64
	FileHash string
	Text     string
	Metadata map[string]interface{}
}

// ExistingDocumentLookup 按内容指纹查询既有记录，未命中返回 (nil, nil)
type ExistingDocumentLookup func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error)

// IngestCoordinator 入库协调器：校验 -> 选解析器 -> 解析 -> 指纹比对
// 本身不碰持久化存储，落库、翻转 is_active、删除临时文件都由调用方按判定执行
type IngestCoordinator interface {
	Ingest(ctx context.Context, in IngestInput, lookup ExistingDocumentLookup) *IngestDecision
}

type ingestCoordinator struct{}

func NewIngestCoordinator() IngestCoordinator {
	return &ingestCoordinator{}
}

func (co *ingestCoordinator) Ingest(ctx context.Context, in IngestInput, lookup ExistingDocumentLookup) (decision *IngestDecision) {
	// 任何未预期的 panic 都要保证临时文件被清掉，再兜成 Failed
	defer func() {
		if r := recover(); r != nil {
			_ = os.Remove(in.Path)
			zlog.Error("入库协调器异常", zap.Any("panic", r), zap.String("file", in.Filename))
			decision = &IngestDecision{Outcome: IngestFailed, Reason: fmt.Sprintf("未预期异常: %v", r)}
		}
	}()

	ext := strings.ToLower(filepath.Ext(in.Filename))

	// 1. 选解析器，未知类型直接拒绝
	p := parser.ParserFor(ext)
	if p == nil {
		return &IngestDecision{Outcome: IngestRejectedInvalid, Reason: fmt.Sprintf("没有可用的解析器: %s", ext)}
	}

	// 2. 前置校验
	if v := p.Validate(in.Path, in.MaxSizeMB); !v.Valid {
		return &IngestDecision{Outcome: IngestRejectedInvalid, Reason: v.Err}
	}

	// 3. 解析，失败原样带出解析器的错误文本
	result := p.Parse(in.Path)
	if !result.Success {
		return &IngestDecision{Outcome: IngestFailed, Reason: result.Err}
	}

	// 4. 指纹比对既有记录
	existing, err := lookup(ctx, result.FileHash)
	if err != nil {
		return &IngestDecision{Outcome: IngestFailed, Reason: fmt.Sprintf("查询既有记录失败: %v", err)}
	}
	if existing != nil {
		if existing.IsActive {
			return &IngestDecision{Outcome: IngestRejectedDuplicate, ExistingFilename: existing.Filename, FileHash: result.FileHash}
		}
		// 停用记录复活：不重新提取，沿用原记录的文本
		return &IngestDecision{Outcome: IngestReactivated, ExistingId: existing.Id, FileHash: result.FileHash}
	}

	docType := strings.TrimSpace(in.Category)
	if docType == "" {
		docType = "general"
	}

	var fileSize int64
	if info, sErr := os.Stat(in.Path); sErr == nil {
		fileSize = info.Size()
	}

	return &IngestDecision{
		Outcome:  IngestCreated,
		Filename: in.Filename,
		FileType: ext,
		DocType:  docType,
		FileSize: fileSize,
		FileHash: result.FileHash,
		Text:     result.Text,
		Metadata: result.Metadata,
	}
}
