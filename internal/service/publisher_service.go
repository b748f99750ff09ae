package service

import (
	"fmt"

	"gorm.io/gorm"

	"docs-italia-go/internal/model"
	"docs-italia-go/internal/repository"
)

// PublisherService 提供面向前台的只读查询。
type PublisherService interface {
	ListPublishers() ([]model.Publisher, error)
	GetPublisher(slug string) (*model.Publisher, error)
	// ListProjects 返回发布者名下激活的分组。
	ListProjects(publisherSlug string) ([]model.PublisherProject, error)
	ListProjectDocuments(publisherSlug, projectSlug string) ([]model.Document, error)
	// SearchDocumentsByTag 返回带有任一给定标签、且仍挂在激活分组下的文档。
	SearchDocumentsByTag(tags []string) ([]model.Document, error)
}

type publisherService struct {
	publisherRepo repository.PublisherRepository
	projectRepo   repository.PublisherProjectRepository
	documentRepo  repository.DocumentRepository
}

// NewPublisherService 创建一个新的 PublisherService 实例。
func NewPublisherService(
	publisherRepo repository.PublisherRepository,
	projectRepo repository.PublisherProjectRepository,
	documentRepo repository.DocumentRepository,
) PublisherService {
	return &publisherService{
		publisherRepo: publisherRepo,
		projectRepo:   projectRepo,
		documentRepo:  documentRepo,
	}
}

func (s *publisherService) ListPublishers() ([]model.Publisher, error) {
	return s.publisherRepo.FindAllActive()
}

func (s *publisherService) GetPublisher(slug string) (*model.Publisher, error) {
	return s.publisherRepo.FindBySlug(slug)
}

func (s *publisherService) ListProjects(publisherSlug string) ([]model.PublisherProject, error) {
	pub, err := s.publisherRepo.FindBySlug(publisherSlug)
	if err != nil {
		return nil, err
	}
	return s.projectRepo.FindByPublisher(pub.ID, true)
}

func (s *publisherService) ListProjectDocuments(publisherSlug, projectSlug string) ([]model.Document, error) {
	pub, err := s.publisherRepo.FindBySlug(publisherSlug)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByPublisherAndSlug(pub.ID, projectSlug)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("分组 %s: %w", projectSlug, gorm.ErrRecordNotFound)
	}
	return s.projectRepo.FindDocuments(project)
}

// SearchDocumentsByTag 的标签匹配在内存中完成，标签存储为 JSON 数组，
// 跨数据库的 JSON 包含查询不可移植，文档总量也在可控范围内。
func (s *publisherService) SearchDocumentsByTag(tags []string) ([]model.Document, error) {
	docs, err := s.documentRepo.FindLinkedToActive()
	if err != nil {
		return nil, err
	}

	var matched []model.Document
	for i := range docs {
		if docs[i].HasAnyTag(tags) {
			matched = append(matched, docs[i])
		}
	}
	return matched, nil
}
