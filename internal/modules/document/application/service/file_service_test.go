package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"CaseForge/internal/config"
	"CaseForge/internal/modules/document/domain/entity"
	projectEntity "CaseForge/internal/modules/project/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjectRepo struct {
	projects map[string]*projectEntity.Project
}

func newFakeProjectRepo(projects ...*projectEntity.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: make(map[string]*projectEntity.Project)}
	for _, p := range projects {
		r.projects[p.ProjectUuid] = p
	}
	return r
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *projectEntity.Project) error {
	r.projects[project.ProjectUuid] = project
	return nil
}

func (r *fakeProjectRepo) GetByUuid(ctx context.Context, projectUuid string) (*projectEntity.Project, error) {
	p, ok := r.projects[projectUuid]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, skip, limit int) ([]projectEntity.Project, error) {
	out := make([]projectEntity.Project, 0)
	for _, p := range r.projects {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *projectEntity.Project) error {
	r.projects[project.ProjectUuid] = project
	return nil
}

func (r *fakeProjectRepo) SetActive(ctx context.Context, id int64, active bool) error {
	for _, p := range r.projects {
		if p.Id == id {
			p.IsActive = active
		}
	}
	return nil
}

type fakeFileRepo struct {
	files     map[string]*entity.RequirementFile
	nextId    int64
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: make(map[string]*entity.RequirementFile)}
}

func (r *fakeFileRepo) Create(ctx context.Context, file *entity.RequirementFile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextId++
	file.Id = r.nextId
	r.files[file.FileUuid] = file
	return nil
}

func (r *fakeFileRepo) GetByUuid(ctx context.Context, fileUuid string) (*entity.RequirementFile, error) {
	f, ok := r.files[fileUuid]
	if !ok {
		return nil, nil
	}
	return f, nil
}

func (r *fakeFileRepo) ListByProject(ctx context.Context, projectId int64) ([]entity.RequirementFile, error) {
	out := make([]entity.RequirementFile, 0)
	for _, f := range r.files {
		if f.ProjectId == projectId {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) Delete(ctx context.Context, id int64) error {
	for uuid, f := range r.files {
		if f.Id == id {
			delete(r.files, uuid)
		}
	}
	return nil
}

func setupFileTest(t *testing.T) (*fakeFileRepo, *fakeProjectRepo, FileService) {
	t.Helper()
	cfg := config.GetConfig()
	cfg.UploadConfig.TempFileDir = t.TempDir()
	cfg.UploadConfig.FileStorageDir = t.TempDir()

	fileRepo := newFakeFileRepo()
	projRepo := newFakeProjectRepo(&projectEntity.Project{Id: 1, ProjectUuid: "proj-1", Name: "演示项目", IsActive: true})
	return fileRepo, projRepo, NewFileService(fileRepo, projRepo)
}

func TestFileUploadKeepsStoredFileOnDisk(t *testing.T) {
	fileRepo, _, svc := setupFileTest(t)

	result, err := svc.Upload(context.Background(), "proj-1", []UploadFileItem{
		{Filename: "需求说明.txt", Data: []byte("登录模块需求")},
	})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 1)
	require.Empty(t, result.Failed)

	stored, err := fileRepo.GetByUuid(context.Background(), result.Uploaded[0].FileUuid)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEmpty(t, stored.FilePath)
	assert.Equal(t, "登录模块需求", stored.ExtractedText)
	assert.Equal(t, entity.ExtractionStatusCompleted, stored.ExtractionStatus)

	// 上传成功后文件留在磁盘上，内容与上传一致
	data, err := os.ReadFile(stored.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "登录模块需求", string(data))
}

func TestFileDeleteRemovesStoredFile(t *testing.T) {
	fileRepo, _, svc := setupFileTest(t)

	result, err := svc.Upload(context.Background(), "proj-1", []UploadFileItem{
		{Filename: "待删除.txt", Data: []byte("内容")},
	})
	require.NoError(t, err)
	require.Len(t, result.Uploaded, 1)

	fileUuid := result.Uploaded[0].FileUuid
	stored, err := fileRepo.GetByUuid(context.Background(), fileUuid)
	require.NoError(t, err)
	storedPath := stored.FilePath

	require.NoError(t, svc.Delete(context.Background(), fileUuid))

	// 记录和磁盘文件都要清掉
	gone, err := fileRepo.GetByUuid(context.Background(), fileUuid)
	require.NoError(t, err)
	assert.Nil(t, gone)
	_, statErr := os.Stat(storedPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileUploadRejectedLeavesNoStoredFile(t *testing.T) {
	_, _, svc := setupFileTest(t)
	cfg := config.GetConfig()

	result, err := svc.Upload(context.Background(), "proj-1", []UploadFileItem{
		{Filename: "simulation.docx", Data: []byte("binary")},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, ".docx")

	entries, err := os.ReadDir(cfg.UploadConfig.FileStorageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileUploadRepoFailureCleansStoredFile(t *testing.T) {
	fileRepo, _, svc := setupFileTest(t)
	fileRepo.createErr = errors.New("db down")
	cfg := config.GetConfig()

	result, err := svc.Upload(context.Background(), "proj-1", []UploadFileItem{
		{Filename: "说明.txt", Data: []byte("内容")},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Uploaded)
	require.Len(t, result.Failed, 1)

	// 落库失败时不留孤儿文件
	entries, err := os.ReadDir(cfg.UploadConfig.FileStorageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileUploadUnknownProject(t *testing.T) {
	_, _, svc := setupFileTest(t)

	_, err := svc.Upload(context.Background(), "no-such-project", []UploadFileItem{
		{Filename: "a.txt", Data: []byte("x")},
	})
	assert.Error(t, err)
}
