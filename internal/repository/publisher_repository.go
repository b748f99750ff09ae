// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"docs-italia-go/internal/model"

	"gorm.io/gorm"
)

// PublisherRepository 接口定义了发布者的数据操作方法。
type PublisherRepository interface {
	Create(publisher *model.Publisher) error
	Save(publisher *model.Publisher) error
	FindByID(id uint) (*model.Publisher, error)
	FindBySlug(slug string) (*model.Publisher, error)
	FindAllActive() ([]model.Publisher, error)
	Delete(publisher *model.Publisher) error
	DeleteRemoteOrganization(id uint) error
}

type publisherRepository struct {
	db *gorm.DB
}

// NewPublisherRepository 创建一个新的 PublisherRepository 实例。
func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

// Create 在数据库中插入一个新的发布者记录。
func (r *publisherRepository) Create(publisher *model.Publisher) error {
	return r.db.Create(publisher).Error
}

// Save 更新数据库中一个已存在的发布者记录。
func (r *publisherRepository) Save(publisher *model.Publisher) error {
	return r.db.Save(publisher).Error
}

// FindByID 根据主键查找发布者。
func (r *publisherRepository) FindByID(id uint) (*model.Publisher, error) {
	var publisher model.Publisher
	err := r.db.Preload("RemoteOrganization").First(&publisher, id).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// FindBySlug 根据 slug 查找发布者，并带出远程组织记录。
func (r *publisherRepository) FindBySlug(slug string) (*model.Publisher, error) {
	var publisher model.Publisher
	err := r.db.Preload("RemoteOrganization").Where("slug = ?", slug).First(&publisher).Error
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// FindAllActive 检索所有启用了同步的发布者。
func (r *publisherRepository) FindAllActive() ([]model.Publisher, error) {
	var publishers []model.Publisher
	err := r.db.Where("active = ?", true).Order("name").Find(&publishers).Error
	return publishers, err
}

// Delete 从数据库中删除一个发布者记录。
func (r *publisherRepository) Delete(publisher *model.Publisher) error {
	return r.db.Delete(publisher).Error
}

// DeleteRemoteOrganization 删除发布者关联的远程组织记录。
func (r *publisherRepository) DeleteRemoteOrganization(id uint) error {
	return r.db.Delete(&model.RemoteOrganization{}, id).Error
}
