// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"errors"

	"docs-italia-go/internal/model"

	"gorm.io/gorm"
)

// DocumentRepository 接口定义了文档的数据操作方法。
type DocumentRepository interface {
	Create(doc *model.Document) error
	Save(doc *model.Document) error
	FindByID(id uint) (*model.Document, error)
	FindByRepoURL(repoURL string) (*model.Document, error)
	FindAllWithProjects() ([]model.Document, error)
	FindLinkedToActive() ([]model.Document, error)
	Delete(doc *model.Document) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository 创建一个新的 DocumentRepository 实例。
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create 在数据库中插入一个新的文档记录。
func (r *documentRepository) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

// Save 更新数据库中一个已存在的文档记录。
func (r *documentRepository) Save(doc *model.Document) error {
	return r.db.Save(doc).Error
}

// FindByID 根据主键查找文档。
func (r *documentRepository) FindByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByRepoURL 根据仓库地址查找文档，仓库地址是文档的外部身份。
func (r *documentRepository) FindByRepoURL(repoURL string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("repo_url = ?", repoURL).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// FindAllWithProjects 检索所有文档并带出它们的分组和发布者，
// 供孤儿清理在内存中判断归属状态。
func (r *documentRepository) FindAllWithProjects() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.Preload("PublisherProjects.Publisher").Find(&docs).Error
	return docs, err
}

// FindLinkedToActive 检索至少归属于一个启用分组（其发布者也启用）的文档。
func (r *documentRepository) FindLinkedToActive() ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Distinct("documents.*").
		Joins("JOIN publisher_project_documents ppd ON ppd.document_id = documents.id").
		Joins("JOIN publisher_projects pp ON pp.id = ppd.publisher_project_id AND pp.active = ?", true).
		Joins("JOIN publishers p ON p.id = pp.publisher_id AND p.active = ?", true).
		Find(&docs).Error
	return docs, err
}

// Delete 从数据库中删除一个文档记录，并先清空它与分组的关联。
func (r *documentRepository) Delete(doc *model.Document) error {
	if err := r.db.Model(doc).Association("PublisherProjects").Clear(); err != nil {
		return err
	}
	return r.db.Delete(doc).Error
}
