// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"docs-italia-go/internal/config"
	"docs-italia-go/internal/metadata"
	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
	"docs-italia-go/pkg/fetcher"
)

// MetadataService 接口定义了抓取并校验远端配置文件的操作。
type MetadataService interface {
	// GetPublisherMetadata 抓取并校验发布者配置，同时返回原始文本供归档。
	GetPublisherMetadata(ctx context.Context, pub *model.Publisher) (*metadata.PublisherMetadata, string, error)
	// GetProjectsMetadata 抓取并校验项目列表配置，同时返回原始文本供归档。
	GetProjectsMetadata(ctx context.Context, pub *model.Publisher) (*metadata.ProjectsMetadata, string, error)
	// GetDocumentMetadata 从文档自己的仓库抓取并校验文档配置。
	GetDocumentMetadata(ctx context.Context, doc *model.Document) (*metadata.DocumentMetadata, error)
}

type metadataService struct {
	fetcher fetcher.Fetcher
	tagRepo repository.AllowedTagRepository
	cfg     config.MetadataConfig
}

// NewMetadataService 创建一个新的 MetadataService 实例。
func NewMetadataService(f fetcher.Fetcher, tagRepo repository.AllowedTagRepository, cfg config.MetadataConfig) MetadataService {
	return &metadataService{fetcher: f, tagRepo: tagRepo, cfg: cfg}
}

// orgContext 构造校验用的组织上下文，logo 展开与抓取共用同一个原始内容地址。
func (s *metadataService) orgContext(pub *model.Publisher) *metadata.OrgContext {
	org := pub.OrgContext(s.cfg.OrgBaseURL)
	org.RawBaseURL = s.cfg.RawBaseURL
	return org
}

// GetPublisherMetadata 从发布者的配置仓库抓取 publisher_settings.yml 并校验。
func (s *metadataService) GetPublisherMetadata(ctx context.Context, pub *model.Publisher) (*metadata.PublisherMetadata, string, error) {
	org := s.orgContext(pub)
	raw, err := s.fetcher.Fetch(ctx, org.Slug, pub.ConfigRepoName, metadata.PublisherSettings.Path())
	if err != nil {
		return nil, "", err
	}

	meta, err := metadata.ValidatePublisherMetadata(org, raw)
	if err != nil {
		return nil, "", err
	}
	return meta, raw, nil
}

// GetProjectsMetadata 从发布者的配置仓库抓取 projects_settings.yml 并校验。
func (s *metadataService) GetProjectsMetadata(ctx context.Context, pub *model.Publisher) (*metadata.ProjectsMetadata, string, error) {
	org := s.orgContext(pub)
	raw, err := s.fetcher.Fetch(ctx, org.Slug, pub.ConfigRepoName, metadata.ProjectsSettings.Path())
	if err != nil {
		return nil, "", err
	}

	meta, err := metadata.ValidateProjectsMetadata(org, raw)
	if err != nil {
		return nil, "", err
	}
	return meta, raw, nil
}

// GetDocumentMetadata 抓取 document_settings.yml。
// 文件位于文档自己的仓库根目录，组织和仓库名从文档的仓库地址推导。
func (s *metadataService) GetDocumentMetadata(ctx context.Context, doc *model.Document) (*metadata.DocumentMetadata, error) {
	org, repo, err := splitRepoURL(doc.RepoURL)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetcher.Fetch(ctx, org, repo, metadata.DocumentSettings.Path())
	if err != nil {
		return nil, err
	}

	allowed, err := s.tagRepo.EnabledNames()
	if err != nil {
		return nil, err
	}
	return metadata.ValidateDocumentMetadata(raw, allowed)
}

// splitRepoURL 把形如 https://github.com/org/repo 的仓库地址拆成组织和仓库名。
func splitRepoURL(repoURL string) (org, repo string, err error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("无法解析仓库地址 %q: %w", repoURL, err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("仓库地址 %q 缺少组织或仓库名", repoURL)
	}
	return parts[0], parts[1], nil
}
