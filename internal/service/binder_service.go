package service

import (
	"context"

	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/log"
)

// BinderService 负责文档导入后的归属绑定：根据各项目元数据里声明的
// 仓库地址，把文档挂到对应的分组下，并用文档自己的配置补全展示信息。
type BinderService interface {
	// ImportDocument 按仓库地址导入（或刷新）一个文档并完成绑定。
	ImportDocument(ctx context.Context, repoURL string) (*model.Document, error)
}

type binderService struct {
	metadataSvc  MetadataService
	documentRepo repository.DocumentRepository
	projectRepo  repository.PublisherProjectRepository
}

// NewBinderService 创建一个新的 BinderService 实例。
func NewBinderService(
	metadataSvc MetadataService,
	documentRepo repository.DocumentRepository,
	projectRepo repository.PublisherProjectRepository,
) BinderService {
	return &binderService{
		metadataSvc:  metadataSvc,
		documentRepo: documentRepo,
		projectRepo:  projectRepo,
	}
}

func (s *binderService) ImportDocument(ctx context.Context, repoURL string) (*model.Document, error) {
	doc, err := s.documentRepo.FindByRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		_, repo, err := splitRepoURL(repoURL)
		if err != nil {
			return nil, err
		}
		doc = &model.Document{
			Name:     repo,
			Slug:     metadata.Slugify(repo),
			RepoURL:  repoURL,
			Language: model.DefaultLanguage,
		}
		if err := s.documentRepo.Create(doc); err != nil {
			return nil, err
		}
	}

	// 没有项目声明这个仓库时绑定为空，文档照常导入，
	// 等待后续某次同步的元数据把它声明进来。
	claimants, err := s.projectRepo.FindByDocumentRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if len(claimants) == 0 {
		log.Infow("仓库未被任何项目声明，文档暂不绑定", "repoUrl", repoURL)
	}
	for i := range claimants {
		if err := s.projectRepo.AddDocument(&claimants[i], doc); err != nil {
			return nil, err
		}
		log.Infow("文档已绑定", "document", doc.Slug, "project", claimants[i].Slug)
	}

	// 文档配置抓不到或不合法只影响展示信息，不阻断绑定。
	s.enrich(ctx, doc)

	if err := s.documentRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// enrich 用文档仓库里的配置补全名称、描述、标签和语言。
func (s *binderService) enrich(ctx context.Context, doc *model.Document) {
	meta, err := s.metadataSvc.GetDocumentMetadata(ctx, doc)
	if err != nil {
		log.Warnf("读取文档 %s 的配置失败，保留默认展示信息: %v", doc.RepoURL, err)
		return
	}

	if meta.Name != "" {
		doc.Name = meta.Name
		doc.Slug = metadata.Slugify(meta.Name)
	}
	doc.Description = meta.Description
	doc.Tags = meta.Tags
	if meta.Language != "" {
		doc.Language = meta.Language
	}
}
