package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
)

func newAdminService(t *testing.T) (AdminService, repository.AllowedTagRepository) {
	t.Helper()
	db := newTestDB(t)
	tagRepo := repository.NewAllowedTagRepository(db)
	publisherRepo := repository.NewPublisherRepository(db)
	return NewAdminService(tagRepo, publisherRepo, nil, "master"), tagRepo
}

// TestTagLifecycle 验证标签白名单的增删改查与归一化。
func TestTagLifecycle(t *testing.T) {
	svc, tagRepo := newAdminService(t)

	tag, err := svc.CreateTag("  Anagrafe ")
	require.NoError(t, err)
	// 名称统一保存为小写去空白的形式
	assert.Equal(t, "anagrafe", tag.Name)
	assert.True(t, tag.Enabled)

	// 归一化后重名被拒绝
	_, err = svc.CreateTag("ANAGRAFE")
	assert.ErrorIs(t, err, ErrTagExists)

	updated, err := svc.UpdateTag(tag.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Enabled)

	// 禁用的标签不出现在校验用的集合里
	enabled, err := tagRepo.EnabledNames()
	require.NoError(t, err)
	assert.NotContains(t, enabled, "anagrafe")

	require.NoError(t, svc.DeleteTag(tag.ID))
	tags, err := svc.ListTags()
	require.NoError(t, err)
	assert.Empty(t, tags)
}

// TestSeedTagsIsIdempotent 验证基础标签导入可以重复执行。
func TestSeedTagsIsIdempotent(t *testing.T) {
	svc, _ := newAdminService(t)

	n, err := svc.SeedTags()
	require.NoError(t, err)
	assert.Equal(t, len(model.BaseAllowedTags), n)

	n, err = svc.SeedTags()
	require.NoError(t, err)
	assert.Zero(t, n)
}

// TestCreatePublisher 验证发布者接入时的 slug 派生与默认配置仓库名。
func TestCreatePublisher(t *testing.T) {
	svc, _ := newAdminService(t)
	ctx := context.Background()

	pub, err := svc.CreatePublisher(ctx, "Ministero della Documentazione", "")
	require.NoError(t, err)
	assert.Equal(t, "ministero-della-documentazione", pub.Slug)
	assert.Equal(t, model.DefaultConfigRepoName, pub.ConfigRepoName)
	assert.True(t, pub.Active)

	_, err = svc.CreatePublisher(ctx, "!!!", "")
	assert.Error(t, err)
}
