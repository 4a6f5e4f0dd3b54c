package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"CaseForge/internal/modules/document/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noMatch(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
	return nil, nil
}

func TestIngestCreated(t *testing.T) {
	path := writeTemp(t, "guide.txt", "操作手册正文")
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "guide.txt", Category: "system_guide", MaxSizeMB: 10}, noMatch)

	require.Equal(t, IngestCreated, d.Outcome)
	assert.Equal(t, "guide.txt", d.Filename)
	assert.Equal(t, ".txt", d.FileType)
	assert.Equal(t, "system_guide", d.DocType)
	assert.Equal(t, "操作手册正文", d.Text)
	assert.Len(t, d.FileHash, 64)
	assert.Greater(t, d.FileSize, int64(0))

	// 协调器不负责清理成功路径上的临时文件
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestIngestCreatedDefaultDocType(t *testing.T) {
	path := writeTemp(t, "note.md", "# 标题")
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "note.md", MaxSizeMB: 10}, noMatch)
	require.Equal(t, IngestCreated, d.Outcome)
	assert.Equal(t, "general", d.DocType)
}

func TestIngestRejectedDuplicate(t *testing.T) {
	path := writeTemp(t, "dup.txt", "same content")
	co := NewIngestCoordinator()

	lookup := func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
		return &entity.KnowledgeDocument{Id: 7, Filename: "已有文档.txt", FileHash: fileHash, IsActive: true}, nil
	}

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "dup.txt", MaxSizeMB: 10}, lookup)
	require.Equal(t, IngestRejectedDuplicate, d.Outcome)
	assert.Equal(t, "已有文档.txt", d.ExistingFilename)
}

func TestIngestRejectedDuplicateIdempotent(t *testing.T) {
	dir := t.TempDir()
	co := NewIngestCoordinator()

	lookup := func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
		return &entity.KnowledgeDocument{Id: 7, Filename: "first.txt", FileHash: fileHash, IsActive: true}, nil
	}

	// 重复上传 N 次结果一致
	for i := 0; i < 3; i++ {
		path := filepath.Join(dir, "again.txt")
		require.NoError(t, os.WriteFile(path, []byte("same content"), 0o644))
		d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "again.txt", MaxSizeMB: 10}, lookup)
		assert.Equal(t, IngestRejectedDuplicate, d.Outcome)
	}
}

func TestIngestReactivated(t *testing.T) {
	path := writeTemp(t, "old.txt", "archived content")
	co := NewIngestCoordinator()

	lookup := func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
		return &entity.KnowledgeDocument{Id: 42, Filename: "old.txt", FileHash: fileHash, IsActive: false, ExtractedText: "旧提取文本"}, nil
	}

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "old.txt", MaxSizeMB: 10}, lookup)
	require.Equal(t, IngestReactivated, d.Outcome)
	assert.Equal(t, int64(42), d.ExistingId)
	// 复活不重新提取，Text 留空由原记录兜着
	assert.Empty(t, d.Text)
	assert.NotEmpty(t, d.FileHash)
}

func TestIngestRejectedInvalidUnknownExtension(t *testing.T) {
	path := writeTemp(t, "report.docx", "binary-ish")
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "report.docx", MaxSizeMB: 10}, noMatch)
	require.Equal(t, IngestRejectedInvalid, d.Outcome)
	assert.Contains(t, d.Reason, ".docx")
}

func TestIngestRejectedInvalidMissingFile(t *testing.T) {
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: filepath.Join(t.TempDir(), "ghost.txt"), Filename: "ghost.txt", MaxSizeMB: 10}, noMatch)
	require.Equal(t, IngestRejectedInvalid, d.Outcome)
	assert.Contains(t, d.Reason, "文件不存在")
}

func TestIngestRejectedInvalidOversize(t *testing.T) {
	big := make([]byte, 2*1024*1024)
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, big, 0o644))
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "big.txt", MaxSizeMB: 1}, noMatch)
	require.Equal(t, IngestRejectedInvalid, d.Outcome)
	assert.Contains(t, d.Reason, "文件过大")
}

func TestIngestFailedOnLookupError(t *testing.T) {
	path := writeTemp(t, "ok.txt", "content")
	co := NewIngestCoordinator()

	lookup := func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
		return nil, errors.New("db down")
	}

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "ok.txt", MaxSizeMB: 10}, lookup)
	require.Equal(t, IngestFailed, d.Outcome)
	assert.Contains(t, d.Reason, "db down")
}

func TestIngestFailedOnParseError(t *testing.T) {
	path := writeTemp(t, "broken.pdf", "not a pdf")
	co := NewIngestCoordinator()

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "broken.pdf", MaxSizeMB: 50}, noMatch)
	require.Equal(t, IngestFailed, d.Outcome)
	assert.NotEmpty(t, d.Reason)
}

func TestIngestPanicCleansTempFile(t *testing.T) {
	path := writeTemp(t, "panic.txt", "content")
	co := NewIngestCoordinator()

	lookup := func(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
		panic("boom")
	}

	d := co.Ingest(context.Background(), IngestInput{Path: path, Filename: "panic.txt", MaxSizeMB: 10}, lookup)
	require.Equal(t, IngestFailed, d.Outcome)
	assert.Contains(t, d.Reason, "boom")

	// panic 路径也要把临时文件清掉
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestExtensionAllowed(t *testing.T) {
	assert.True(t, extensionAllowed(".pdf", ".pdf,.txt,.md"))
	assert.True(t, extensionAllowed(".md", ".pdf, .txt, .md"))
	assert.True(t, extensionAllowed(".PDF", ".pdf,.txt"))
	assert.False(t, extensionAllowed(".xlsx", ".pdf,.txt,.md"))
	assert.False(t, extensionAllowed("", ".pdf"))
}
