package service

import (
	"context"
	"testing"

	"CaseForge/internal/config"
	"CaseForge/internal/modules/document/application/dto/request"
	"CaseForge/internal/modules/document/domain/entity"
	projectEntity "CaseForge/internal/modules/project/domain/entity"
	"CaseForge/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKBRepo struct {
	docs   map[int64]*entity.KnowledgeDocument
	nextId int64
}

func newFakeKBRepo(docs ...*entity.KnowledgeDocument) *fakeKBRepo {
	r := &fakeKBRepo{docs: make(map[int64]*entity.KnowledgeDocument)}
	for _, d := range docs {
		r.docs[d.Id] = d
		if d.Id > r.nextId {
			r.nextId = d.Id
		}
	}
	return r
}

// GetByHash 活跃记录优先，其次取 id 最大的
func (r *fakeKBRepo) GetByHash(ctx context.Context, fileHash string) (*entity.KnowledgeDocument, error) {
	var best *entity.KnowledgeDocument
	for _, d := range r.docs {
		if d.FileHash != fileHash {
			continue
		}
		if best == nil {
			best = d
			continue
		}
		if d.IsActive != best.IsActive {
			if d.IsActive {
				best = d
			}
			continue
		}
		if d.Id > best.Id {
			best = d
		}
	}
	return best, nil
}

func (r *fakeKBRepo) GetByUuid(ctx context.Context, docUuid string) (*entity.KnowledgeDocument, error) {
	for _, d := range r.docs {
		if d.DocUuid == docUuid {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeKBRepo) CreateWithHashGuard(ctx context.Context, doc *entity.KnowledgeDocument) (*entity.KnowledgeDocument, error) {
	for _, d := range r.docs {
		if d.FileHash == doc.FileHash && d.IsActive {
			return d, nil
		}
	}
	r.nextId++
	doc.Id = r.nextId
	r.docs[doc.Id] = doc
	return nil, nil
}

func (r *fakeKBRepo) SetActive(ctx context.Context, id int64, active bool) error {
	if d, ok := r.docs[id]; ok {
		d.IsActive = active
	}
	return nil
}

func (r *fakeKBRepo) Update(ctx context.Context, doc *entity.KnowledgeDocument) error {
	r.docs[doc.Id] = doc
	return nil
}

func (r *fakeKBRepo) Delete(ctx context.Context, id int64) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeKBRepo) List(ctx context.Context, isActive *bool, docType string) ([]entity.KnowledgeDocument, error) {
	out := make([]entity.KnowledgeDocument, 0)
	for _, d := range r.docs {
		if isActive != nil && d.IsActive != *isActive {
			continue
		}
		if docType != "" && d.DocType != docType {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeKBRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.docs)), nil
}

func (r *fakeKBRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, d := range r.docs {
		if d.IsActive {
			n++
		}
	}
	return n, nil
}

func setupKBTest(t *testing.T, docs ...*entity.KnowledgeDocument) (*fakeKBRepo, KnowledgeBaseService) {
	t.Helper()
	cfg := config.GetConfig()
	cfg.UploadConfig.TempFileDir = t.TempDir()

	kbRepo := newFakeKBRepo(docs...)
	projRepo := newFakeProjectRepo(&projectEntity.Project{Id: 1, ProjectUuid: "proj-1", Name: "演示项目", IsActive: true})
	return kbRepo, NewKnowledgeBaseService(NewIngestCoordinator(), kbRepo, projRepo)
}

func boolPtr(b bool) *bool { return &b }

func TestKBUploadCreated(t *testing.T) {
	kbRepo, svc := setupKBTest(t)

	result, err := svc.Upload(context.Background(), &request.UploadKBDocumentRequest{
		ProjectUuid: "proj-1",
		Filename:    "操作手册.txt",
		Category:    "system_guide",
		Data:        []byte("手册正文"),
	})
	require.NoError(t, err)
	assert.Equal(t, "created", result.Outcome)
	assert.Equal(t, "system_guide", result.Document.DocType)
	assert.True(t, result.Document.IsActive)

	count, _ := kbRepo.CountActive(context.Background())
	assert.Equal(t, int64(1), count)
}

func TestKBUploadDuplicateRejected(t *testing.T) {
	_, svc := setupKBTest(t)

	req := &request.UploadKBDocumentRequest{
		ProjectUuid: "proj-1",
		Filename:    "手册.txt",
		Data:        []byte("同一份内容"),
	}
	_, err := svc.Upload(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), req)
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Equal(t, xerr.BadRequest, codeErr.Code)
	assert.Contains(t, codeErr.Message, "相同内容的文档已存在")
}

func TestKBUploadReactivatesInactiveRecord(t *testing.T) {
	_, svc := setupKBTest(t)

	req := &request.UploadKBDocumentRequest{
		ProjectUuid: "proj-1",
		Filename:    "手册.txt",
		Data:        []byte("复活内容"),
	}
	first, err := svc.Upload(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), first.Document.DocUuid, false))

	second, err := svc.Upload(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "reactivated", second.Outcome)
	assert.Equal(t, first.Document.DocUuid, second.Document.DocUuid)
	assert.True(t, second.Document.IsActive)
}

func TestKBUpdateReactivateAllowedWithInactiveSibling(t *testing.T) {
	// 同指纹只有停用的兄弟记录时，允许复活
	target := &entity.KnowledgeDocument{Id: 1, DocUuid: "doc-a", Filename: "a.txt", FileHash: "h1", IsActive: false}
	sibling := &entity.KnowledgeDocument{Id: 2, DocUuid: "doc-b", Filename: "b.txt", FileHash: "h1", IsActive: false}
	_, svc := setupKBTest(t, target, sibling)

	updated, err := svc.Update(context.Background(), "doc-a", &request.UpdateKBDocumentRequest{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestKBUpdateReactivateBlockedByActiveSibling(t *testing.T) {
	target := &entity.KnowledgeDocument{Id: 1, DocUuid: "doc-a", Filename: "a.txt", FileHash: "h1", IsActive: false}
	sibling := &entity.KnowledgeDocument{Id: 2, DocUuid: "doc-b", Filename: "b.txt", FileHash: "h1", IsActive: true}
	_, svc := setupKBTest(t, target, sibling)

	_, err := svc.Update(context.Background(), "doc-a", &request.UpdateKBDocumentRequest{IsActive: boolPtr(true)})
	require.Error(t, err)
	codeErr, ok := err.(*xerr.CodeError)
	require.True(t, ok)
	assert.Contains(t, codeErr.Message, "已处于激活状态")
}

func TestKBListCounts(t *testing.T) {
	_, svc := setupKBTest(t,
		&entity.KnowledgeDocument{Id: 1, DocUuid: "doc-a", FileHash: "h1", IsActive: true},
		&entity.KnowledgeDocument{Id: 2, DocUuid: "doc-b", FileHash: "h2", IsActive: false},
	)

	result, err := svc.List(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.TotalCount)
	assert.Equal(t, int64(1), result.ActiveCount)
	assert.Len(t, result.Documents, 2)

	active, err := svc.List(context.Background(), boolPtr(true), "")
	require.NoError(t, err)
	assert.Len(t, active.Documents, 1)
}
