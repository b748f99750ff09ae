package service

import (
	"context"
	"errors"
	"strings"

	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/log"
)

// ErrRefRequired 表示 push 事件的载荷里缺少 ref 字段。
var ErrRefRequired = errors.New(`Parameter "ref" is required`)

// WebhookResult 是 push 事件处理完后返回给调用方的结果。
type WebhookResult struct {
	BuildTriggered bool     `json:"build_triggered"`
	Publisher      string   `json:"publisher"`
	Versions       []string `json:"versions"`
}

// Archiver 把原始配置文本归档到对象存储，归档失败不阻断同步。
type Archiver interface {
	Archive(ctx context.Context, publisherSlug, fileName string, content []byte) error
}

// WebhookService 处理配置仓库的 push 回调：抓取元数据、校验并触发同步。
type WebhookService interface {
	HandlePush(ctx context.Context, pub *model.Publisher, ref string) (*WebhookResult, error)
}

type webhookService struct {
	metadataSvc   MetadataService
	reconcileSvc  ReconcileService
	publisherRepo repository.PublisherRepository
	archiver      Archiver
	defaultBranch string
}

// NewWebhookService 创建一个新的 WebhookService 实例。archiver 可以为 nil。
func NewWebhookService(
	metadataSvc MetadataService,
	reconcileSvc ReconcileService,
	publisherRepo repository.PublisherRepository,
	archiver Archiver,
	defaultBranch string,
) WebhookService {
	return &webhookService{
		metadataSvc:   metadataSvc,
		reconcileSvc:  reconcileSvc,
		publisherRepo: publisherRepo,
		archiver:      archiver,
		defaultBranch: defaultBranch,
	}
}

// HandlePush 处理一次 push 事件。
// 只有默认分支上的推送才会触发同步；元数据不合法时同步被跳过，
// 返回未触发的结果而不是错误。
func (s *webhookService) HandlePush(ctx context.Context, pub *model.Publisher, ref string) (*WebhookResult, error) {
	if ref == "" {
		return nil, ErrRefRequired
	}

	skipped := &WebhookResult{
		BuildTriggered: false,
		Publisher:      pub.Slug,
		Versions:       []string{},
	}

	branch := branchFromRef(ref)
	if branch != s.defaultBranch {
		log.Infow("非默认分支的推送被忽略", "publisher", pub.Slug, "branch", branch)
		return skipped, nil
	}

	pubMeta, rawPub, err := s.metadataSvc.GetPublisherMetadata(ctx, pub)
	if err != nil {
		if metadata.IsInvalid(err) {
			log.Warnf("发布者 %s 的 publisher 元数据不合法，跳过同步: %v", pub.Slug, err)
			return skipped, nil
		}
		return nil, err
	}

	projMeta, rawProj, err := s.metadataSvc.GetProjectsMetadata(ctx, pub)
	if err != nil {
		if metadata.IsInvalid(err) {
			log.Warnf("发布者 %s 的 projects 元数据不合法，跳过同步: %v", pub.Slug, err)
			return skipped, nil
		}
		return nil, err
	}

	// 不用元数据里的 name 改写发布者名称：name 上有唯一索引，
	// 两个配置仓库写了相同名字会让整个回调失败。展示层读 Metadata.Name。
	pub.Metadata = pubMeta
	pub.ProjectsMetadata = projMeta
	if err := s.publisherRepo.Save(pub); err != nil {
		return nil, err
	}

	s.archive(ctx, pub.Slug, metadata.PublisherSettings.Path(), rawPub)
	s.archive(ctx, pub.Slug, metadata.ProjectsSettings.Path(), rawProj)

	if err := s.reconcileSvc.Reconcile(ctx, pub, projMeta); err != nil {
		return nil, err
	}

	return &WebhookResult{
		BuildTriggered: true,
		Publisher:      pub.Slug,
		Versions:       []string{branch},
	}, nil
}

func (s *webhookService) archive(ctx context.Context, slug, fileName, content string) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, slug, fileName, []byte(content)); err != nil {
		log.Warnf("归档 %s/%s 失败: %v", slug, fileName, err)
	}
}

// branchFromRef 从 refs/heads/master 这样的完整 ref 里取出分支名。
func branchFromRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}
