// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"errors"

	"docs-italia-go/internal/model"

	"gorm.io/gorm"
)

// PublisherProjectRepository 接口定义了文档分组的数据操作方法。
type PublisherProjectRepository interface {
	Save(project *model.PublisherProject) error
	FindByPublisherAndSlug(publisherID uint, slug string) (*model.PublisherProject, error)
	FindByPublisher(publisherID uint, activeOnly bool) ([]model.PublisherProject, error)
	FindByDocumentRepoURL(repoURL string) ([]model.PublisherProject, error)
	FindLinkedProjects(documentID uint) ([]model.PublisherProject, error)
	FindDocuments(project *model.PublisherProject) ([]model.Document, error)
	AddDocument(project *model.PublisherProject, doc *model.Document) error
	RemoveDocument(project *model.PublisherProject, doc *model.Document) error
	CountOtherClaims(documentID, excludeProjectID uint) (int64, error)
	Delete(project *model.PublisherProject) error
}

type publisherProjectRepository struct {
	db *gorm.DB
}

// NewPublisherProjectRepository 创建一个新的 PublisherProjectRepository 实例。
func NewPublisherProjectRepository(db *gorm.DB) PublisherProjectRepository {
	return &publisherProjectRepository{db: db}
}

// Save 插入或更新一个文档分组记录。
func (r *publisherProjectRepository) Save(project *model.PublisherProject) error {
	return r.db.Save(project).Error
}

// FindByPublisherAndSlug 在某个发布者内按 slug 查找分组。
func (r *publisherProjectRepository) FindByPublisherAndSlug(publisherID uint, slug string) (*model.PublisherProject, error) {
	var project model.PublisherProject
	err := r.db.Where("publisher_id = ? AND slug = ?", publisherID, slug).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// FindByPublisher 检索某个发布者名下的分组，可以只取启用的。
func (r *publisherProjectRepository) FindByPublisher(publisherID uint, activeOnly bool) ([]model.PublisherProject, error) {
	var projects []model.PublisherProject
	query := r.db.Where("publisher_id = ?", publisherID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("slug").Find(&projects).Error
	return projects, err
}

// FindByDocumentRepoURL 查找元数据里声明了给定文档仓库地址的所有分组。
// 元数据保存为 JSON 块，跨数据库的 JSON 包含查询不可移植，分组数量
// 也很小，所以这里取出后在内存中过滤。
func (r *publisherProjectRepository) FindByDocumentRepoURL(repoURL string) ([]model.PublisherProject, error) {
	var all []model.PublisherProject
	if err := r.db.Find(&all).Error; err != nil {
		return nil, err
	}

	var matched []model.PublisherProject
	for i := range all {
		if all[i].ClaimsRepoURL(repoURL) {
			matched = append(matched, all[i])
		}
	}
	return matched, nil
}

// FindLinkedProjects 检索当前真正关联着给定文档的所有分组。
func (r *publisherProjectRepository) FindLinkedProjects(documentID uint) ([]model.PublisherProject, error) {
	var projects []model.PublisherProject
	err := r.db.
		Joins("JOIN publisher_project_documents ppd ON ppd.publisher_project_id = publisher_projects.id").
		Where("ppd.document_id = ?", documentID).
		Find(&projects).Error
	return projects, err
}

// FindDocuments 检索分组当前关联的所有文档。
func (r *publisherProjectRepository) FindDocuments(project *model.PublisherProject) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Model(project).Association("Documents").Find(&docs)
	return docs, err
}

// AddDocument 把文档加入分组，已存在的关联不会重复插入。
func (r *publisherProjectRepository) AddDocument(project *model.PublisherProject, doc *model.Document) error {
	return r.db.Model(project).Association("Documents").Append(doc)
}

// RemoveDocument 把文档移出分组。
func (r *publisherProjectRepository) RemoveDocument(project *model.PublisherProject, doc *model.Document) error {
	return r.db.Model(project).Association("Documents").Delete(doc)
}

// CountOtherClaims 统计除给定分组外还有多少分组关联着这个文档。
func (r *publisherProjectRepository) CountOtherClaims(documentID, excludeProjectID uint) (int64, error) {
	var count int64
	err := r.db.Table("publisher_project_documents").
		Where("document_id = ? AND publisher_project_id <> ?", documentID, excludeProjectID).
		Count(&count).Error
	return count, err
}

// Delete 删除分组记录，并先清空它与文档的关联。
func (r *publisherProjectRepository) Delete(project *model.PublisherProject) error {
	if err := r.db.Model(project).Association("Documents").Clear(); err != nil {
		return err
	}
	return r.db.Delete(project).Error
}
