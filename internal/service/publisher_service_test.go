package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/lock"
)

// TestSearchDocumentsByTag 验证按标签搜索只命中仍挂在激活分组下的文档。
func TestSearchDocumentsByTag(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	projectRepo := repository.NewPublisherProjectRepository(db)
	ctx := context.Background()

	reconcileSvc := NewReconcileService(db, lock.NoopLocker{})
	require.NoError(t, reconcileSvc.Reconcile(ctx, pub, projectsMeta(
		projectEntry("Anagrafe", "anagrafe", "https://github.com/m/a"),
		projectEntry("Morto", "morto", "https://github.com/m/b"),
	)))

	anagrafe, err := projectRepo.FindByPublisherAndSlug(pub.ID, "anagrafe")
	require.NoError(t, err)
	morto, err := projectRepo.FindByPublisherAndSlug(pub.ID, "morto")
	require.NoError(t, err)

	docA := seedBoundDocument(t, db, "https://github.com/m/a", anagrafe)
	docA.Tags = []string{"anagrafe", "comuni"}
	require.NoError(t, db.Save(docA).Error)

	docB := seedBoundDocument(t, db, "https://github.com/m/b", morto)
	docB.Tags = []string{"anagrafe"}
	require.NoError(t, db.Save(docB).Error)

	// morto 分组被停用
	morto.Active = false
	require.NoError(t, db.Save(morto).Error)

	svc := NewPublisherService(repository.NewPublisherRepository(db), projectRepo,
		repository.NewDocumentRepository(db))

	t.Run("命中激活分组下的文档", func(t *testing.T) {
		docs, err := svc.SearchDocumentsByTag([]string{"anagrafe"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, docA.ID, docs[0].ID)
	})

	t.Run("任一标签命中即返回", func(t *testing.T) {
		docs, err := svc.SearchDocumentsByTag([]string{"comuni", "sconosciuto"})
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("无命中返回空", func(t *testing.T) {
		docs, err := svc.SearchDocumentsByTag([]string{"sconosciuto"})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

// TestListProjectsOnlyActive 验证前台分组列表只含激活的分组。
func TestListProjectsOnlyActive(t *testing.T) {
	db := newTestDB(t)
	pub := seedPublisher(t, db, "ministero")
	projectRepo := repository.NewPublisherProjectRepository(db)
	ctx := context.Background()

	reconcileSvc := NewReconcileService(db, lock.NoopLocker{})
	require.NoError(t, reconcileSvc.Reconcile(ctx, pub, projectsMeta(
		projectEntry("Vivo", "vivo", "https://github.com/m/a"),
		projectEntry("Morto", "morto", "https://github.com/m/b"),
	)))
	require.NoError(t, reconcileSvc.Reconcile(ctx, pub, projectsMeta(
		projectEntry("Vivo", "vivo", "https://github.com/m/a"),
	)))

	svc := NewPublisherService(repository.NewPublisherRepository(db), projectRepo,
		repository.NewDocumentRepository(db))
	projects, err := svc.ListProjects("ministero")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "vivo", projects[0].Slug)
}
