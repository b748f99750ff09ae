package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/lock"
	"docs-italia-go/pkg/tasks"
)

// capturingEnqueuer 记录投递的清理任务。
type capturingEnqueuer struct {
	tasks []tasks.ClearIndexTask
}

func (c *capturingEnqueuer) Enqueue(task tasks.ClearIndexTask) error {
	c.tasks = append(c.tasks, task)
	return nil
}

// seedBoundDocument 创建一个文档并绑定到给定分组。
func seedBoundDocument(t *testing.T, db *gorm.DB, repoURL string, projects ...*model.PublisherProject) *model.Document {
	t.Helper()
	doc := &model.Document{Name: repoURL, Slug: repoURL, RepoURL: repoURL, Language: "it"}
	require.NoError(t, db.Create(doc).Error)
	projectRepo := repository.NewPublisherProjectRepository(db)
	for _, p := range projects {
		require.NoError(t, projectRepo.AddDocument(p, doc))
	}
	return doc
}

// TestDeleteProjectRemovesOrphans 验证删除分组时：独占文档被删除并
// 投递索引清理任务，被其他分组共享的文档保留。
func TestDeleteProjectRemovesOrphans(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	projectRepo := repository.NewPublisherProjectRepository(db)
	ctx := context.Background()

	reconcileSvc := NewReconcileService(db, lock.NoopLocker{})
	require.NoError(t, reconcileSvc.Reconcile(ctx, pub, projectsMeta(
		projectEntry("Anagrafe", "anagrafe", "https://github.com/m/solo"),
		projectEntry("Fisco", "fisco", "https://github.com/m/condiviso"),
	)))

	anagrafe, err := projectRepo.FindByPublisherAndSlug(pub.ID, "anagrafe")
	require.NoError(t, err)
	fisco, err := projectRepo.FindByPublisherAndSlug(pub.ID, "fisco")
	require.NoError(t, err)

	solo := seedBoundDocument(t, db, "https://github.com/m/solo", anagrafe)
	condiviso := seedBoundDocument(t, db, "https://github.com/m/condiviso", anagrafe, fisco)

	enqueuer := &capturingEnqueuer{}
	svc := NewCleanupService(db, enqueuer)
	require.NoError(t, svc.DeletePublisherProject(ctx, anagrafe.ID))

	documentRepo := repository.NewDocumentRepository(db)

	// 独占文档成为孤儿被删除
	gone, err := documentRepo.FindByRepoURL(solo.RepoURL)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// 共享文档保留，且仍绑定在另一个分组下
	kept, err := documentRepo.FindByRepoURL(condiviso.RepoURL)
	require.NoError(t, err)
	require.NotNil(t, kept)
	linked, err := projectRepo.FindLinkedProjects(kept.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	// 清理任务只包含孤儿文档
	require.Len(t, enqueuer.tasks, 1)
	assert.Equal(t, []uint{solo.ID}, enqueuer.tasks[0].DocumentIDs)
	assert.NotEmpty(t, enqueuer.tasks[0].TaskID)
}

// TestDeletePublisherCascades 验证删除发布者会清掉全部分组和孤儿文档。
func TestDeletePublisherCascades(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	projectRepo := repository.NewPublisherProjectRepository(db)
	ctx := context.Background()

	reconcileSvc := NewReconcileService(db, lock.NoopLocker{})
	require.NoError(t, reconcileSvc.Reconcile(ctx, pub, projectsMeta(
		projectEntry("Anagrafe", "anagrafe", "https://github.com/m/docs"),
	)))
	anagrafe, err := projectRepo.FindByPublisherAndSlug(pub.ID, "anagrafe")
	require.NoError(t, err)
	seedBoundDocument(t, db, "https://github.com/m/docs", anagrafe)

	enqueuer := &capturingEnqueuer{}
	svc := NewCleanupService(db, enqueuer)
	require.NoError(t, svc.DeletePublisher(ctx, pub.ID))

	var pubCount, projCount, docCount int64
	require.NoError(t, db.Model(&model.Publisher{}).Count(&pubCount).Error)
	require.NoError(t, db.Model(&model.PublisherProject{}).Count(&projCount).Error)
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.Zero(t, pubCount)
	assert.Zero(t, projCount)
	assert.Zero(t, docCount)
	assert.Len(t, enqueuer.tasks, 1)
}

// TestCleanIndexSweepsOrphans 验证全量清理能识别三种孤儿：
// 无任何绑定、绑定的分组非激活、分组的发布者非激活。
func TestCleanIndexSweepsOrphans(t *testing.T) {
	db := newTestDB(t)
	pubAttivo := seedPublisher(t, db, "attivo")
	pubSpento := seedPublisher(t, db, "spento")
	projectRepo := repository.NewPublisherProjectRepository(db)
	ctx := context.Background()

	reconcileSvc := NewReconcileService(db, lock.NoopLocker{})
	require.NoError(t, reconcileSvc.Reconcile(ctx, pubAttivo, projectsMeta(
		projectEntry("Vivo", "vivo", "https://github.com/m/vivo"),
		projectEntry("Morto", "morto", "https://github.com/m/morto"),
	)))
	require.NoError(t, reconcileSvc.Reconcile(ctx, pubSpento, projectsMeta(
		projectEntry("Altro", "altro", "https://github.com/m/altro"),
	)))

	vivo, err := projectRepo.FindByPublisherAndSlug(pubAttivo.ID, "vivo")
	require.NoError(t, err)
	morto, err := projectRepo.FindByPublisherAndSlug(pubAttivo.ID, "morto")
	require.NoError(t, err)
	altro, err := projectRepo.FindByPublisherAndSlug(pubSpento.ID, "altro")
	require.NoError(t, err)

	docVivo := seedBoundDocument(t, db, "https://github.com/m/vivo", vivo)
	seedBoundDocument(t, db, "https://github.com/m/morto", morto)
	seedBoundDocument(t, db, "https://github.com/m/altro", altro)
	seedBoundDocument(t, db, "https://github.com/m/slegato")

	// morto 项目从元数据里消失后被置为非激活
	require.NoError(t, reconcileSvc.Reconcile(ctx, pubAttivo, projectsMeta(
		projectEntry("Vivo", "vivo", "https://github.com/m/vivo"),
	)))
	// spento 发布者整体停用
	pubSpento.Active = false
	require.NoError(t, db.Save(pubSpento).Error)

	enqueuer := &capturingEnqueuer{}
	svc := NewCleanupService(db, enqueuer)
	removed, err := svc.CleanIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	var remaining []model.Document
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, docVivo.ID, remaining[0].ID)

	require.Len(t, enqueuer.tasks, 1)
	assert.Len(t, enqueuer.tasks[0].DocumentIDs, 3)
}
