package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/lock"
)

func validPubMeta() *metadata.PublisherMetadata {
	return &metadata.PublisherMetadata{Name: "Ministero", Description: "desc"}
}

// TestHandlePushDefaultBranch 验证默认分支上的推送触发完整同步。
func TestHandlePushDefaultBranch(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	publisherRepo := repository.NewPublisherRepository(db)
	projectRepo := repository.NewPublisherProjectRepository(db)

	meta := &fakeMetadataService{
		pubMeta:  validPubMeta(),
		projMeta: projectsMeta(projectEntry("Anagrafe", "anagrafe", "https://github.com/ministero/anpr-docs")),
	}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}), publisherRepo, nil, "master")

	result, err := svc.HandlePush(context.Background(), pub, "refs/heads/master")
	require.NoError(t, err)
	assert.True(t, result.BuildTriggered)
	assert.Equal(t, "ministero", result.Publisher)
	assert.Equal(t, []string{"master"}, result.Versions)

	// 元数据持久化到发布者记录，但不改写带唯一索引的 name
	saved, err := publisherRepo.FindBySlug("ministero")
	require.NoError(t, err)
	assert.Equal(t, "ministero", saved.Name)
	require.NotNil(t, saved.Metadata)
	assert.Equal(t, "Ministero", saved.Metadata.Name)
	require.NotNil(t, saved.ProjectsMetadata)

	// 同步已经执行
	project, err := projectRepo.FindByPublisherAndSlug(pub.ID, "anagrafe")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.True(t, project.Active)
}

// TestHandlePushSharedMetadataName 验证两个发布者的配置写了相同的 name
// 时回调不会撞上 name 的唯一索引：同步彼此独立完成。
func TestHandlePushSharedMetadataName(t *testing.T) {
	db := newTestDB(t)
	pubA := seedPublisher(t, db, "ministero-a")
	pubB := seedPublisher(t, db, "ministero-b")
	publisherRepo := repository.NewPublisherRepository(db)

	meta := &fakeMetadataService{pubMeta: validPubMeta(), projMeta: projectsMeta()}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}), publisherRepo, nil, "master")

	for _, pub := range []*model.Publisher{pubA, pubB} {
		result, err := svc.HandlePush(context.Background(), pub, "refs/heads/master")
		require.NoError(t, err)
		assert.True(t, result.BuildTriggered)
	}

	savedA, err := publisherRepo.FindBySlug("ministero-a")
	require.NoError(t, err)
	savedB, err := publisherRepo.FindBySlug("ministero-b")
	require.NoError(t, err)
	assert.Equal(t, "ministero-a", savedA.Name)
	assert.Equal(t, "ministero-b", savedB.Name)
	assert.Equal(t, savedA.Metadata.Name, savedB.Metadata.Name)
}

// TestHandlePushOtherBranch 验证非默认分支的推送被忽略。
func TestHandlePushOtherBranch(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	meta := &fakeMetadataService{pubMeta: validPubMeta(), projMeta: projectsMeta()}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}),
		repository.NewPublisherRepository(db), nil, "master")

	result, err := svc.HandlePush(context.Background(), pub, "refs/heads/feature-x")
	require.NoError(t, err)
	assert.False(t, result.BuildTriggered)
	assert.Empty(t, result.Versions)
}

// TestHandlePushMissingRef 验证缺少 ref 参数的请求被拒绝。
func TestHandlePushMissingRef(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	svc := NewWebhookService(&fakeMetadataService{}, NewReconcileService(db, lock.NoopLocker{}),
		repository.NewPublisherRepository(db), nil, "master")

	_, err := svc.HandlePush(context.Background(), pub, "")
	assert.ErrorIs(t, err, ErrRefRequired)
}

// TestHandlePushInvalidMetadata 验证元数据不合法时同步被跳过而不是报错。
func TestHandlePushInvalidMetadata(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	meta := &fakeMetadataService{
		pubErr: &metadata.InvalidMetadataError{Kind: metadata.PublisherSettings, Field: "name"},
	}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}),
		repository.NewPublisherRepository(db), nil, "master")

	result, err := svc.HandlePush(context.Background(), pub, "refs/heads/master")
	require.NoError(t, err)
	assert.False(t, result.BuildTriggered)
	assert.Empty(t, result.Versions)
}

// TestHandlePushTransportError 验证网络类错误原样上抛，区别于校验失败。
func TestHandlePushTransportError(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	transportErr := errors.New("connection refused")
	meta := &fakeMetadataService{pubErr: transportErr}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}),
		repository.NewPublisherRepository(db), nil, "master")

	_, err := svc.HandlePush(context.Background(), pub, "refs/heads/master")
	assert.ErrorIs(t, err, transportErr)
}

// TestHandlePushInvalidProjects 验证 projects 配置不合法时同样跳过，
// 且发布者记录不会被部分更新。
func TestHandlePushInvalidProjects(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	publisherRepo := repository.NewPublisherRepository(db)
	meta := &fakeMetadataService{
		pubMeta: validPubMeta(),
		projErr: &metadata.ParseError{Message: "empty document"},
	}
	svc := NewWebhookService(meta, NewReconcileService(db, lock.NoopLocker{}), publisherRepo, nil, "master")

	result, err := svc.HandlePush(context.Background(), pub, "refs/heads/master")
	require.NoError(t, err)
	assert.False(t, result.BuildTriggered)

	saved, err := publisherRepo.FindBySlug("ministero")
	require.NoError(t, err)
	assert.Nil(t, saved.Metadata)
}
